package subject

import (
	"context"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
)

// Source adapts the profile store to the engine's SubjectSource port.
type Source struct {
	store Store
}

func NewSource(store Store) *Source {
	return &Source{store: store}
}

func (s *Source) Snapshot(ctx context.Context, subjectID id.SubjectID) (analysis.Subject, error) {
	profile, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		return analysis.Subject{}, err
	}
	return profile.Snapshot(), nil
}
