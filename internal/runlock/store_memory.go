package runlock

import (
	"context"
	"sync"
	"time"

	id "houscan/pkg/domain"
)

// MemoryStore keeps locks and progress in process memory. Single-instance
// deployments and tests use it; anything multi-instance needs RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	locks    map[id.SubjectID]time.Time // expiry per held lock
	progress map[id.SubjectID][2]int    // done, total
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		locks:    make(map[id.SubjectID]time.Time),
		progress: make(map[id.SubjectID][2]int),
		now:      time.Now,
	}
}

// Acquire atomically claims the subject's lock. It returns false when a
// non-expired lock is already held.
func (s *MemoryStore) Acquire(_ context.Context, subjectID id.SubjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, held := s.locks[subjectID]; held && s.now().Before(expiry) {
		return false, nil
	}
	s.locks[subjectID] = s.now().Add(s.ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, subjectID id.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, subjectID)
	return nil
}

func (s *MemoryStore) SetProgress(_ context.Context, subjectID id.SubjectID, done, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[subjectID] = [2]int{done, total}
	return nil
}

func (s *MemoryStore) Progress(_ context.Context, subjectID id.SubjectID) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress[subjectID]
	return p[0], p[1], nil
}

func (s *MemoryStore) ClearProgress(_ context.Context, subjectID id.SubjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, subjectID)
	return nil
}
