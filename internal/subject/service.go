package subject

import (
	"context"
	"errors"
	"log/slog"
	"time"

	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

// AnalysisTrigger requests a fresh analysis run for a subject. A conflict
// error means a run is already in flight, which the write path treats as
// success.
type AnalysisTrigger interface {
	Trigger(ctx context.Context, subjectID id.SubjectID) error
}

// Service owns the profile write path. Every create and every change to an
// eligibility-relevant field kicks off a background analysis run; cosmetic
// updates do not.
type Service struct {
	store   Store
	trigger AnalysisTrigger
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(store Store, trigger AnalysisTrigger, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		trigger: trigger,
		logger:  logger,
		now:     time.Now,
	}
}

// Upsert saves the profile and triggers analysis when the profile is new or
// an eligibility field changed. An already-running analysis is not an error:
// the run in flight reads the freshly saved profile or a follow-up write
// retriggers it.
func (s *Service) Upsert(ctx context.Context, profile Profile) (Profile, error) {
	if profile.ID.IsNil() {
		return Profile{}, dErrors.New(dErrors.CodeInvalidInput, "subject id is required")
	}

	existing, err := s.store.FindByID(ctx, profile.ID)
	isNew := false
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return Profile{}, err
		}
		isNew = true
	}

	profile.UpdatedAt = s.now()
	if err := s.store.Save(ctx, profile); err != nil {
		return Profile{}, err
	}

	if !isNew && !eligibilityChanged(existing, profile) {
		return profile, nil
	}

	if err := s.trigger.Trigger(ctx, profile.ID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.logger.InfoContext(ctx, "analysis already running, profile change noted",
				"subject_id", profile.ID.String(),
			)
			return profile, nil
		}
		s.logger.ErrorContext(ctx, "failed to trigger analysis after profile change",
			"subject_id", profile.ID.String(),
			"error", err.Error(),
		)
		return Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "trigger analysis")
	}

	s.logger.InfoContext(ctx, "analysis triggered",
		"subject_id", profile.ID.String(),
		"new_profile", isNew,
	)
	return profile, nil
}

// Get returns the stored profile.
func (s *Service) Get(ctx context.Context, subjectID id.SubjectID) (Profile, error) {
	return s.store.FindByID(ctx, subjectID)
}
