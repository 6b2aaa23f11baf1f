package models

import (
	"time"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
)

// AuditProgram is the aggregate root for an audit plan.
//
// Invariants:
//   - Name is non-empty and at most 256 characters
//   - StartDate <= EndDate
//   - Status transitions follow the edges in status.go; every transition is
//     applied as a conditional update so concurrent actors cannot race past
//     the state machine
//   - Audits are owned exclusively by the program: created atomically with it
//     (or appended later), scoped and deleted with it
//   - A program cannot be submitted for approval with zero audits
type AuditProgram struct {
	ID         id.ProgramID `json:"id"`
	Name       string       `json:"name"`
	Objective  string       `json:"auditProgramObjective,omitempty"`
	Status     Status       `json:"status"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	TenantID   id.TenantID  `json:"tenantId"`
	TenantName string       `json:"tenantName"`
	CreatedBy  id.UserID    `json:"createdBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Audits     []Audit      `json:"audits"`
}

// NewAuditProgram constructs a Draft program with its nested audits. The
// whole construction fails if any audit input is invalid (all-or-nothing).
func NewAuditProgram(name, objective string, start, end time.Time, tenantID id.TenantID, tenantName string, createdBy id.UserID, audits []AuditInput, now time.Time) (*AuditProgram, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "program name cannot be empty")
	}
	if len(name) > 256 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "program name must be 256 characters or less")
	}
	if start.IsZero() || end.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "start and end dates are required")
	}
	if end.Before(start) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "end date cannot precede start date")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant id is required")
	}
	if len(audits) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "a program requires at least one audit")
	}

	p := &AuditProgram{
		ID:         id.NewProgramID(now),
		Name:       name,
		Objective:  objective,
		Status:     StatusDraft,
		StartDate:  start,
		EndDate:    end,
		TenantID:   tenantID,
		TenantName: tenantName,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, in := range audits {
		a, err := NewAudit(p.ID, in, now)
		if err != nil {
			return nil, err
		}
		p.Audits = append(p.Audits, *a)
	}
	return p, nil
}

// CanSubmit checks the submit-for-approval preconditions. Re-submission from
// Pending Approval is tolerated as a no-op; callers check AlreadyPending.
func (p *AuditProgram) CanSubmit() error {
	if p.Status == StatusPending {
		return nil
	}
	if !p.Status.CanTransitionTo(StatusPending) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot submit a program in status %q", p.Status)
	}
	if len(p.Audits) == 0 {
		return dErrors.New(dErrors.CodeValidation, "cannot submit a program with no audits")
	}
	return nil
}

// AlreadyPending reports whether a submit would be a no-op.
func (p *AuditProgram) AlreadyPending() bool {
	return p.Status == StatusPending
}

// HasMember reports whether the given email leads or belongs to any audit
// team in the program. Used for auditor-scoped list visibility.
func (p *AuditProgram) HasMember(email string) bool {
	for i := range p.Audits {
		if p.Audits[i].Team.Includes(email) {
			return true
		}
	}
	return false
}

// FindAudit returns the nested audit with the given ID, or nil.
func (p *AuditProgram) FindAudit(auditID id.AuditID) *Audit {
	for i := range p.Audits {
		if p.Audits[i].ID == auditID {
			return &p.Audits[i]
		}
	}
	return nil
}
