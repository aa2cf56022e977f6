package announcement

import (
	"context"
	"time"

	"houscan/internal/analysis"
)

// RecentlyClosedGrace is how long a closed announcement keeps being analyzed
// after its last application day. Verdicts against a just-closed program are
// still useful to the subject; months-old programs are not.
const RecentlyClosedGrace = 30 * 24 * time.Hour

// Source adapts the announcement store to the engine's AnnouncementSource
// port. A run evaluates upcoming, open, and recently closed announcements;
// unknown-period announcements are included rather than silently skipped.
type Source struct {
	store Store
	now   func() time.Time
}

func NewSource(store Store) *Source {
	return &Source{store: store, now: time.Now}
}

func (s *Source) Relevant(ctx context.Context) ([]analysis.Announcement, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var relevant []analysis.Announcement
	for _, a := range all {
		if !a.RelevantAt(now, RecentlyClosedGrace) {
			continue
		}
		relevant = append(relevant, a.View())
	}
	return relevant, nil
}
