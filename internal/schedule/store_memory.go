package schedule

import (
	"context"
	"sync"

	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/sentinel"
)

// InMemoryStore is a thread-safe in-memory schedule store.
type InMemoryStore struct {
	mu        sync.RWMutex
	schedules map[id.AuditID]Schedule
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{schedules: make(map[id.AuditID]Schedule)}
}

func (s *InMemoryStore) Save(_ context.Context, schedule *Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *schedule
	cp.Entries = append([]Entry(nil), schedule.Entries...)
	s.schedules[schedule.AuditID] = cp
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, auditID id.AuditID) (*Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schedule, ok := s.schedules[auditID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := schedule
	cp.Entries = append([]Entry(nil), schedule.Entries...)
	return &cp, nil
}
