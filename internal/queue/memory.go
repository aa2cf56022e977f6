package queue

import (
	"context"
	"log/slog"

	"houscan/internal/analysis"
	dErrors "houscan/pkg/domain-errors"
)

const defaultMemoryCapacity = 64

// Memory is a channel-backed queue for tests and single-process runs.
type Memory struct {
	jobs   chan analysis.Job
	logger *slog.Logger
}

func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		jobs:   make(chan analysis.Job, defaultMemoryCapacity),
		logger: logger,
	}
}

// Enqueue hands the job to the worker. A full queue is reported as
// unavailable rather than blocking the caller's request.
func (m *Memory) Enqueue(ctx context.Context, job analysis.Job) error {
	select {
	case m.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return dErrors.New(dErrors.CodeUnavailable, "analysis queue is full")
	}
}

func (m *Memory) Run(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-m.jobs:
			if err := handle(ctx, job); err != nil {
				m.logger.ErrorContext(ctx, "analysis job failed",
					"subject_id", job.SubjectID.String(),
					"error", err.Error(),
				)
			}
		}
	}
}
