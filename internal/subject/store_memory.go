package subject

import (
	"context"
	"sync"

	id "houscan/pkg/domain"
)

// MemoryStore is an in-memory profile store for tests and single-process runs.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.SubjectID]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[id.SubjectID]Profile)}
}

func (s *MemoryStore) Save(_ context.Context, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, subjectID id.SubjectID) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[subjectID]; ok {
		return profile, nil
	}
	return Profile{}, ErrProfileNotFound
}
