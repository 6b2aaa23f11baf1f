package directory

import (
	"context"
	"sync"

	id "auditflow/pkg/domain"
)

// InMemoryStore holds directory data in memory. Used in tests and local
// development where the shared user database is not wired.
type InMemoryStore struct {
	mu       sync.RWMutex
	auditors map[id.TenantID][]Auditor
	heads    map[id.TenantID][]DepartmentHead
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		auditors: make(map[id.TenantID][]Auditor),
		heads:    make(map[id.TenantID][]DepartmentHead),
	}
}

// SeedAuditor registers an auditor for a tenant.
func (s *InMemoryStore) SeedAuditor(tenantID id.TenantID, a Auditor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditors[tenantID] = append(s.auditors[tenantID], a)
}

// SeedDepartmentHead registers a department head for a tenant.
func (s *InMemoryStore) SeedDepartmentHead(tenantID id.TenantID, h DepartmentHead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heads[tenantID] = append(s.heads[tenantID], h)
}

func (s *InMemoryStore) AuditorsByTenant(_ context.Context, tenantID id.TenantID) ([]Auditor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Auditor{}, s.auditors[tenantID]...), nil
}

func (s *InMemoryStore) DepartmentHeadsByTenant(_ context.Context, tenantID id.TenantID) ([]DepartmentHead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DepartmentHead{}, s.heads[tenantID]...), nil
}
