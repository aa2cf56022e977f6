package announcement

import (
	"context"

	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

// ErrAnnouncementNotFound is returned when no announcement exists for an id.
var ErrAnnouncementNotFound = dErrors.New(dErrors.CodeNotFound, "announcement not found")

// Store persists announcements.
type Store interface {
	Save(ctx context.Context, a Announcement) error
	FindByID(ctx context.Context, announcementID id.AnnouncementID) (Announcement, error)
	List(ctx context.Context) ([]Announcement, error)
}
