package subject

import (
	"context"

	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

// ErrProfileNotFound is returned when no profile exists for a subject.
var ErrProfileNotFound = dErrors.New(dErrors.CodeNotFound, "profile not found")

// Store persists applicant profiles.
type Store interface {
	Save(ctx context.Context, profile Profile) error
	FindByID(ctx context.Context, subjectID id.SubjectID) (Profile, error)
}
