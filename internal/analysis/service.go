package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"houscan/internal/analysis/metrics"
	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

// ErrAlreadyRunning is returned by Trigger when the per-subject lock is held.
var ErrAlreadyRunning = dErrors.New(dErrors.CodeConflict, "analysis already running for subject")

// DefaultRunBudget bounds one run's wall clock. Runs cut short by the budget
// still record their summary over whatever was completed.
const DefaultRunBudget = 10 * time.Minute

// rateLimited is implemented by throttle errors from the judgment service.
type rateLimited interface {
	RateLimited() bool
}

func isRateLimited(err error) bool {
	var rl rateLimited
	return errors.As(err, &rl) && rl.RateLimited()
}

// Service is the analysis controller. Trigger accepts work under the
// per-subject lock and hands it to the queue; Run executes the pipeline for
// one job and always releases the lock on exit.
type Service struct {
	subjects      SubjectSource
	announcements AnnouncementSource
	verdicts      VerdictStore
	locks         LockStore
	progress      ProgressStore
	queue         Queue
	judge         Judge
	metrics       *metrics.Metrics
	logger        *slog.Logger
	runBudget     time.Duration
	now           func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRunBudget overrides the per-run wall-clock budget.
func WithRunBudget(budget time.Duration) ServiceOption {
	return func(s *Service) {
		if budget > 0 {
			s.runBudget = budget
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(
	subjects SubjectSource,
	announcements AnnouncementSource,
	verdicts VerdictStore,
	locks LockStore,
	progress ProgressStore,
	queue Queue,
	judge Judge,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		subjects:      subjects,
		announcements: announcements,
		verdicts:      verdicts,
		locks:         locks,
		progress:      progress,
		queue:         queue,
		judge:         judge,
		metrics:       m,
		logger:        logger,
		runBudget:     DefaultRunBudget,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Trigger accepts an analysis run for the subject. The lock is taken here,
// before the job is queued, so two concurrent triggers cannot both enqueue;
// Run releases it when the job finishes.
func (s *Service) Trigger(ctx context.Context, subjectID id.SubjectID) error {
	acquired, err := s.locks.Acquire(ctx, subjectID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "acquire analysis lock")
	}
	if !acquired {
		s.metrics.IncrementRunRejected()
		return ErrAlreadyRunning
	}

	if err := s.queue.Enqueue(ctx, Job{SubjectID: subjectID}); err != nil {
		// The job never made it to a worker; holding the lock would block
		// retries until the TTL expires.
		if releaseErr := s.locks.Release(ctx, subjectID); releaseErr != nil {
			s.logger.ErrorContext(ctx, "failed to release lock after enqueue failure",
				"subject_id", subjectID.String(),
				"error", releaseErr.Error(),
			)
		}
		return err
	}

	s.logger.InfoContext(ctx, "analysis run accepted",
		"subject_id", subjectID.String(),
	)
	return nil
}

// Run executes the pipeline for one job: snapshot the subject, evaluate every
// relevant announcement, and record the summary. Verdicts are written
// incrementally so a partial run still leaves complete records behind.
func (s *Service) Run(ctx context.Context, job Job) error {
	start := s.now()
	defer s.metrics.ObserveRun(start)
	defer func() {
		// Release uses a fresh context: the run context may already be past
		// its budget, and a leaked lock blocks the subject until TTL expiry.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locks.Release(releaseCtx, job.SubjectID); err != nil {
			s.logger.ErrorContext(releaseCtx, "failed to release analysis lock",
				"subject_id", job.SubjectID.String(),
				"error", err.Error(),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.runBudget)
	defer cancel()

	subject, err := s.subjects.Snapshot(ctx, job.SubjectID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeOf(err), "load subject snapshot")
	}

	announcements, err := s.announcements.Relevant(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeOf(err), "list relevant announcements")
	}
	s.metrics.ObserveAnnouncements(len(announcements))

	report := RunReport{Total: len(announcements)}
	anyEligible := false
	s.setProgress(ctx, job.SubjectID, 0, report.Total)

	for i, ann := range announcements {
		if ctx.Err() != nil {
			s.logBudgetExhausted(ctx, job.SubjectID, i, report.Total)
			break
		}

		eligible, err := s.analyzeOne(ctx, subject, ann, &report)
		if err != nil {
			if ctx.Err() != nil {
				s.logBudgetExhausted(ctx, job.SubjectID, i, report.Total)
				break
			}
			return err
		}
		anyEligible = anyEligible || eligible
		s.setProgress(ctx, job.SubjectID, i+1, report.Total)
	}

	// A partial run must still leave its report behind, so the summary write
	// gets a fresh context when the budget has already expired.
	saveCtx := ctx
	if ctx.Err() != nil {
		var cancelSave context.CancelFunc
		saveCtx, cancelSave = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelSave()
	}

	summary := Summary{
		SubjectID:   job.SubjectID,
		AnyEligible: anyEligible,
		Report:      report,
		UpdatedAt:   s.now(),
	}
	if err := s.verdicts.SaveSummary(saveCtx, summary); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save run summary")
	}
	s.clearProgress(saveCtx, job.SubjectID)

	s.logger.InfoContext(ctx, "analysis run completed",
		"subject_id", job.SubjectID.String(),
		"total", report.Total,
		"analyzed", report.Analyzed,
		"eligible", report.Eligible,
		"rate_limited", report.RateLimited,
		"errors", report.Errors,
	)
	return nil
}

func (s *Service) logBudgetExhausted(ctx context.Context, subjectID id.SubjectID, completed, total int) {
	s.logger.WarnContext(ctx, "run budget exhausted, recording partial summary",
		"subject_id", subjectID.String(),
		"completed", completed,
		"total", total,
	)
}

// analyzeOne runs the pipeline for a single announcement. Only a verdict
// store failure aborts the run; judge failures degrade to an error-tagged
// verdict and throttling skips the announcement entirely.
func (s *Service) analyzeOne(ctx context.Context, subject Subject, ann Announcement, report *RunReport) (bool, error) {
	status := Evaluate(subject, ann)

	judgeStart := s.now()
	judgment, err := s.judge.Judge(ctx, JudgeRequest{Subject: subject, Status: status, Announce: ann})
	s.metrics.ObserveJudge(judgeStart)

	if err != nil {
		// Budget expiry mid-call is the run ending, not an upstream failure;
		// surface it so the loop records a partial summary instead of
		// tagging this announcement as failed.
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if isRateLimited(err) {
			report.RateLimited++
			s.metrics.IncrementRateLimitSkip()
			s.logger.WarnContext(ctx, "judgment throttled, skipping announcement",
				"subject_id", subject.ID.String(),
				"announcement_id", ann.ID.String(),
			)
			return false, nil
		}

		report.Errors++
		s.metrics.IncrementVerdict("error")
		s.logger.ErrorContext(ctx, "judgment failed",
			"subject_id", subject.ID.String(),
			"announcement_id", ann.ID.String(),
			"error", err.Error(),
		)
		failed := Verdict{
			SubjectID:      subject.ID,
			AnnouncementID: ann.ID,
			Eligible:       false,
			Reasons:        []string{"분석 중 오류가 발생하여 자격을 판단하지 못했습니다."},
			AnalysisFailed: true,
			UpdatedAt:      s.now(),
		}
		if err := s.verdicts.UpsertVerdict(ctx, failed); err != nil {
			return false, dErrors.Wrap(err, dErrors.CodeInternal, "record failed verdict")
		}
		return false, nil
	}

	verdict := Reconcile(subject, ann, status, judgment)
	verdict.UpdatedAt = s.now()
	if err := s.verdicts.UpsertVerdict(ctx, verdict); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "record verdict")
	}

	report.Analyzed++
	if verdict.Eligible {
		report.Eligible++
		s.metrics.IncrementVerdict("eligible")
	} else {
		s.metrics.IncrementVerdict("ineligible")
	}
	return verdict.Eligible, nil
}

// Progress reports a running analysis's position. Zero values mean no run is
// in flight or the progress record expired.
func (s *Service) Progress(ctx context.Context, subjectID id.SubjectID) (done, total int, err error) {
	return s.progress.Progress(ctx, subjectID)
}

// Verdicts lists the subject's stored verdicts.
func (s *Service) Verdicts(ctx context.Context, subjectID id.SubjectID) ([]Verdict, error) {
	return s.verdicts.ListVerdicts(ctx, subjectID)
}

// Verdict returns the stored verdict for one (subject, announcement) pair.
func (s *Service) Verdict(ctx context.Context, subjectID id.SubjectID, announcementID id.AnnouncementID) (Verdict, error) {
	return s.verdicts.FindVerdict(ctx, subjectID, announcementID)
}

// Summary returns the subject's latest run summary.
func (s *Service) Summary(ctx context.Context, subjectID id.SubjectID) (Summary, error) {
	return s.verdicts.FindSummary(ctx, subjectID)
}

func (s *Service) setProgress(ctx context.Context, subjectID id.SubjectID, done, total int) {
	if err := s.progress.SetProgress(ctx, subjectID, done, total); err != nil {
		s.logger.WarnContext(ctx, "failed to record progress",
			"subject_id", subjectID.String(),
			"error", err.Error(),
		)
	}
}

func (s *Service) clearProgress(ctx context.Context, subjectID id.SubjectID) {
	if err := s.progress.ClearProgress(ctx, subjectID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear progress",
			"subject_id", subjectID.String(),
			"error", err.Error(),
		)
	}
}
