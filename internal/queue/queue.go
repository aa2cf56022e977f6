// Package queue moves accepted analysis jobs to the background worker. The
// memory queue serves tests and single-process deployments; the kafka queue
// serves everything else.
package queue

import (
	"context"

	"houscan/internal/analysis"
)

// Handler processes one dequeued job. A returned error is logged by the
// consumer loop; it never stops consumption.
type Handler func(ctx context.Context, job analysis.Job) error

// Consumer is the receive side of a queue. Run blocks until ctx is
// cancelled.
type Consumer interface {
	Run(ctx context.Context, handle Handler) error
}
