// Package httptransport assembles the HTTP surface: middleware stack, health
// and metrics endpoints, and the domain route groups.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	platformmetrics "houscan/internal/platform/metrics"
	"houscan/internal/platform/middleware"
	"houscan/pkg/platform/httputil"
)

// Registrar is implemented by every domain handler group.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports a dependency's liveness for /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router options.
type Options struct {
	Logger   *slog.Logger
	Metrics  *platformmetrics.Metrics
	Timeout  time.Duration
	Checkers map[string]HealthChecker
}

// NewRouter wires the shared middleware stack and mounts every handler
// group under the API root.
func NewRouter(opts Options, groups ...Registrar) http.Handler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Instrument(opts.Metrics))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(opts.Checkers))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, group := range groups {
		group.Register(r)
	}
	return r
}

func healthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checkers))
		for name, checker := range checkers {
			if err := checker.Health(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		httputil.WriteJSON(w, status, body)
	}
}
