// Package store persists verdicts and subject summaries. Implementations
// satisfy analysis.VerdictStore; the memory store backs tests and
// single-process runs, the postgres store everything else.
package store

import (
	dErrors "houscan/pkg/domain-errors"
)

var (
	ErrVerdictNotFound = dErrors.New(dErrors.CodeNotFound, "verdict not found")
	ErrSummaryNotFound = dErrors.New(dErrors.CodeNotFound, "summary not found")
)
