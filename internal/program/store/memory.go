// Package store provides the persistence implementations for audit programs,
// their nested audits, and invitation acceptances.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/sentinel"
)

// InMemoryStore is a thread-safe in-memory ProgramStore for tests and local
// development. Programs are deep-copied on the way in and out so callers
// never share mutable state with the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	programs map[id.ProgramID]*models.AuditProgram
	// auditIndex maps an audit to its owning program.
	auditIndex map[id.AuditID]id.ProgramID
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		programs:   make(map[id.ProgramID]*models.AuditProgram),
		auditIndex: make(map[id.AuditID]id.ProgramID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, program *models.AuditProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.programs[program.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := copyProgram(program)
	s.programs[program.ID] = cp
	for i := range cp.Audits {
		s.auditIndex[cp.Audits[i].ID] = cp.ID
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[programID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyProgram(p), nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]models.AuditProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AuditProgram
	for _, p := range s.programs {
		if p.TenantID == tenantID {
			out = append(out, *copyProgram(p))
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

func (s *InMemoryStore) ListByTenantAndStatus(_ context.Context, tenantID id.TenantID, statuses []models.Status) ([]models.AuditProgram, error) {
	wanted := make(map[models.Status]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AuditProgram
	for _, p := range s.programs {
		if p.TenantID == tenantID && wanted[p.Status] {
			out = append(out, *copyProgram(p))
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

// UpdateStatus commits a transition only if the stored status still equals
// from, so concurrent transitions serialize instead of racing.
func (s *InMemoryStore) UpdateStatus(_ context.Context, programID id.ProgramID, from, to models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[programID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if p.Status != from {
		return sentinel.ErrStaleStatus
	}
	p.Status = to
	p.UpdatedAt = at
	return nil
}

func (s *InMemoryStore) AddAudit(_ context.Context, audit *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[audit.ProgramID]
	if !ok {
		return sentinel.ErrNotFound
	}
	p.Audits = append(p.Audits, *copyAudit(audit))
	s.auditIndex[audit.ID] = p.ID
	return nil
}

func (s *InMemoryStore) FindAuditByID(_ context.Context, auditID id.AuditID) (*models.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	programID, ok := s.auditIndex[auditID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	a := s.programs[programID].FindAudit(auditID)
	if a == nil {
		return nil, sentinel.ErrNotFound
	}
	return copyAudit(a), nil
}

func (s *InMemoryStore) UpdateTeam(_ context.Context, auditID id.AuditID, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	programID, ok := s.auditIndex[auditID]
	if !ok {
		return sentinel.ErrNotFound
	}
	a := s.programs[programID].FindAudit(auditID)
	if a == nil {
		return sentinel.ErrNotFound
	}
	a.Team = copyTeam(team)
	return nil
}

// InMemoryAcceptanceStore is a thread-safe in-memory AcceptanceStore.
type InMemoryAcceptanceStore struct {
	mu          sync.RWMutex
	acceptances map[acceptanceKey]models.AcceptedAudit
}

type acceptanceKey struct {
	auditID   id.AuditID
	auditorID id.UserID
}

// NewInMemoryAcceptanceStore creates an empty InMemoryAcceptanceStore.
func NewInMemoryAcceptanceStore() *InMemoryAcceptanceStore {
	return &InMemoryAcceptanceStore{acceptances: make(map[acceptanceKey]models.AcceptedAudit)}
}

func (s *InMemoryAcceptanceStore) Create(_ context.Context, acceptance models.AcceptedAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := acceptanceKey{acceptance.AuditID, acceptance.AuditorID}
	if _, exists := s.acceptances[key]; exists {
		return sentinel.ErrConflict
	}
	s.acceptances[key] = acceptance
	return nil
}

func (s *InMemoryAcceptanceStore) Find(_ context.Context, auditID id.AuditID, auditorID id.UserID) (*models.AcceptedAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.acceptances[acceptanceKey{auditID, auditorID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &acc, nil
}

func copyProgram(p *models.AuditProgram) *models.AuditProgram {
	cp := *p
	cp.Audits = make([]models.Audit, len(p.Audits))
	for i := range p.Audits {
		cp.Audits[i] = *copyAudit(&p.Audits[i])
	}
	return &cp
}

func copyAudit(a *models.Audit) *models.Audit {
	cp := *a
	cp.Scope = append([]string(nil), a.Scope...)
	cp.Objectives = append([]string(nil), a.Objectives...)
	cp.Methods = append([]string(nil), a.Methods...)
	cp.Criteria = append([]string(nil), a.Criteria...)
	cp.Team = copyTeam(a.Team)
	return &cp
}

func copyTeam(t *models.Team) *models.Team {
	if t == nil {
		return nil
	}
	return &models.Team{
		Leader:  t.Leader,
		Members: append([]string(nil), t.Members...),
	}
}

func sortByCreatedAt(programs []models.AuditProgram) {
	// Newest first, matching the postgres ORDER BY.
	sort.Slice(programs, func(i, j int) bool {
		return programs[i].CreatedAt.After(programs[j].CreatedAt)
	})
}
