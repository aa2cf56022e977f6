package announcement

import (
	"context"
	"sync"

	id "houscan/pkg/domain"
)

// MemoryStore is an in-memory announcement store for tests and
// single-process runs.
type MemoryStore struct {
	mu            sync.RWMutex
	announcements map[id.AnnouncementID]Announcement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{announcements: make(map[id.AnnouncementID]Announcement)}
}

func (s *MemoryStore) Save(_ context.Context, a Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcements[a.ID] = a
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, announcementID id.AnnouncementID) (Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.announcements[announcementID]; ok {
		return a, nil
	}
	return Announcement{}, ErrAnnouncementNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		out = append(out, a)
	}
	return out, nil
}
