package analysis

import (
	"context"

	id "houscan/pkg/domain"
)

// Collaborator interfaces the engine consumes. Implementations live in their
// own packages (judge, runlock, queue, subject, announcement, store); the
// engine depends only on these contracts so tests can substitute doubles.

// Judge performs the natural-language judgment call. Implementations must
// return a RateLimitError-compatible error on throttling so the controller
// can skip rather than retry, and must never let a malformed response
// surface as an error (the adapter degrades it to an adapter-error judgment).
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (Judgment, error)
}

// JudgeRequest is everything the judgment service sees. Deterministic
// statuses travel as already-decided facts; the service is instructed not to
// re-derive them.
type JudgeRequest struct {
	Subject  Subject
	Status   DeterministicStatus
	Announce Announcement
}

// SubjectSource fetches the applicant snapshot for a run.
type SubjectSource interface {
	Snapshot(ctx context.Context, subjectID id.SubjectID) (Subject, error)
}

// AnnouncementSource lists the announcements a run evaluates.
type AnnouncementSource interface {
	Relevant(ctx context.Context) ([]Announcement, error)
}

// VerdictStore persists per-announcement verdicts and the subject summary.
// Upsert semantics: at most one live verdict per (subject, announcement).
type VerdictStore interface {
	UpsertVerdict(ctx context.Context, v Verdict) error
	FindVerdict(ctx context.Context, subjectID id.SubjectID, announcementID id.AnnouncementID) (Verdict, error)
	ListVerdicts(ctx context.Context, subjectID id.SubjectID) ([]Verdict, error)
	SaveSummary(ctx context.Context, s Summary) error
	FindSummary(ctx context.Context, subjectID id.SubjectID) (Summary, error)
}

// LockStore serializes runs per subject. Acquire is an atomic test-and-set
// with expiry; the TTL is the safety net against runs that crash without
// releasing.
type LockStore interface {
	Acquire(ctx context.Context, subjectID id.SubjectID) (bool, error)
	Release(ctx context.Context, subjectID id.SubjectID) error
}

// ProgressStore exposes run progress for external visibility. Not
// authoritative state; losing it is harmless.
type ProgressStore interface {
	SetProgress(ctx context.Context, subjectID id.SubjectID, done, total int) error
	Progress(ctx context.Context, subjectID id.SubjectID) (done, total int, err error)
	ClearProgress(ctx context.Context, subjectID id.SubjectID) error
}

// Queue hands an accepted analysis job to the background worker.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Job is one "analyze this subject" unit of work.
type Job struct {
	SubjectID id.SubjectID `json:"subject_id"`
}
