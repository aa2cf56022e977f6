package store

import (
	"context"
	"sync"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
)

type verdictKey struct {
	subject      id.SubjectID
	announcement id.AnnouncementID
}

// MemoryStore keeps verdicts and summaries in maps guarded by one RWMutex.
// It intentionally favors clarity over performance.
type MemoryStore struct {
	mu        sync.RWMutex
	verdicts  map[verdictKey]analysis.Verdict
	summaries map[id.SubjectID]analysis.Summary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		verdicts:  make(map[verdictKey]analysis.Verdict),
		summaries: make(map[id.SubjectID]analysis.Summary),
	}
}

func (s *MemoryStore) UpsertVerdict(_ context.Context, v analysis.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[verdictKey{v.SubjectID, v.AnnouncementID}] = v
	return nil
}

func (s *MemoryStore) FindVerdict(_ context.Context, subjectID id.SubjectID, announcementID id.AnnouncementID) (analysis.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.verdicts[verdictKey{subjectID, announcementID}]; ok {
		return v, nil
	}
	return analysis.Verdict{}, ErrVerdictNotFound
}

func (s *MemoryStore) ListVerdicts(_ context.Context, subjectID id.SubjectID) ([]analysis.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []analysis.Verdict
	for key, v := range s.verdicts {
		if key.subject == subjectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveSummary(_ context.Context, summary analysis.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.SubjectID] = summary
	return nil
}

func (s *MemoryStore) FindSummary(_ context.Context, subjectID id.SubjectID) (analysis.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if summary, ok := s.summaries[subjectID]; ok {
		return summary, nil
	}
	return analysis.Summary{}, ErrSummaryNotFound
}
