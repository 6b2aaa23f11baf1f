package models

import (
	"strings"
	"time"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
)

// Audit is a single engagement within a program. It has no independent
// lifecycle: visibility and deletion follow the parent program.
type Audit struct {
	ID         id.AuditID   `json:"id"`
	ProgramID  id.ProgramID `json:"auditProgramId"`
	Scope      []string     `json:"scope"`
	Objectives []string     `json:"specificAuditObjective"`
	Methods    []string     `json:"methods"`
	Criteria   []string     `json:"criteria"`
	Team       *Team        `json:"team,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// AuditInput is the validated creation payload for one audit.
type AuditInput struct {
	Scope      []string
	Objectives []string
	Methods    []string
	Criteria   []string
}

// NewAudit constructs an audit linked to its parent program.
func NewAudit(programID id.ProgramID, in AuditInput, now time.Time) (*Audit, error) {
	if len(in.Scope) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit scope cannot be empty")
	}
	if len(in.Objectives) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit objectives cannot be empty")
	}
	if len(in.Methods) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit methods cannot be empty")
	}
	if len(in.Criteria) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit criteria cannot be empty")
	}
	return &Audit{
		ID:         id.NewAuditID(now),
		ProgramID:  programID,
		Scope:      in.Scope,
		Objectives: in.Objectives,
		Methods:    in.Methods,
		Criteria:   in.Criteria,
		CreatedAt:  now,
	}, nil
}

// Team is the auditor assignment for one audit: a leader plus members.
// Stored as a single JSON document; queried whole or by membership.
type Team struct {
	Leader  string   `json:"leader"`
	Members []string `json:"members"`
}

// Validate checks structural team invariants. Tenant and role membership of
// the referenced auditors is validated at the service layer against the
// directory.
func (t *Team) Validate() error {
	if t == nil {
		return dErrors.New(dErrors.CodeValidation, "team is required")
	}
	if strings.TrimSpace(t.Leader) == "" {
		return dErrors.New(dErrors.CodeValidation, "team leader is required")
	}
	seen := map[string]bool{t.Leader: true}
	for _, m := range t.Members {
		if strings.TrimSpace(m) == "" {
			return dErrors.New(dErrors.CodeValidation, "team members cannot be blank")
		}
		if seen[m] {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate team member %q", m)
		}
		seen[m] = true
	}
	return nil
}

// Includes reports whether email leads or belongs to the team. Nil-safe so
// unassigned audits read naturally at call sites.
func (t *Team) Includes(email string) bool {
	if t == nil {
		return false
	}
	if t.Leader == email {
		return true
	}
	for _, m := range t.Members {
		if m == email {
			return true
		}
	}
	return false
}

// All returns leader plus members in stable order.
func (t *Team) All() []string {
	if t == nil {
		return nil
	}
	return append([]string{t.Leader}, t.Members...)
}
