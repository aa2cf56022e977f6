// Package metrics provides observability for the analysis engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks run throughput and judgment behavior. All methods are
// nil-safe so tests can pass a nil receiver without wiring a registry.
type Metrics struct {
	RunDuration         prometheus.Histogram
	AnnouncementsPerRun prometheus.Histogram
	JudgeDuration       prometheus.Histogram
	VerdictOutcomes     *prometheus.CounterVec
	RateLimitSkips      prometheus.Counter
	RunsRejected        prometheus.Counter
}

// New creates a Metrics instance with all analysis metrics registered.
func New() *Metrics {
	return &Metrics{
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "houscan_analysis_run_duration_seconds",
			Help:    "Duration of one full analysis run for a subject",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		AnnouncementsPerRun: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "houscan_analysis_announcements_per_run",
			Help:    "Number of announcements evaluated in one run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		JudgeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "houscan_judge_request_duration_seconds",
			Help:    "Duration of one judgment service call",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		VerdictOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "houscan_verdicts_total",
			Help: "Verdicts recorded, labelled by outcome",
		}, []string{"outcome"}),
		RateLimitSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "houscan_judge_rate_limit_skips_total",
			Help: "Announcements skipped because the judgment service throttled",
		}),
		RunsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "houscan_analysis_runs_rejected_total",
			Help: "Trigger attempts rejected because a run was already in flight",
		}),
	}
}

// ObserveRun records the wall-clock duration of one analysis run.
// Call with time.Now() taken at the start of the run.
func (m *Metrics) ObserveRun(start time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// ObserveAnnouncements records how many announcements a run evaluated.
func (m *Metrics) ObserveAnnouncements(count int) {
	if m == nil {
		return
	}
	m.AnnouncementsPerRun.Observe(float64(count))
}

// ObserveJudge records the duration of one judgment call.
func (m *Metrics) ObserveJudge(start time.Time) {
	if m == nil {
		return
	}
	m.JudgeDuration.Observe(time.Since(start).Seconds())
}

// IncrementVerdict records one recorded verdict by outcome
// (eligible, ineligible, or error).
func (m *Metrics) IncrementVerdict(outcome string) {
	if m == nil {
		return
	}
	m.VerdictOutcomes.WithLabelValues(outcome).Inc()
}

// IncrementRateLimitSkip records one announcement skipped on throttling.
func (m *Metrics) IncrementRateLimitSkip() {
	if m == nil {
		return
	}
	m.RateLimitSkips.Inc()
}

// IncrementRunRejected records one trigger rejected by the per-subject lock.
func (m *Metrics) IncrementRunRejected() {
	if m == nil {
		return
	}
	m.RunsRejected.Inc()
}
