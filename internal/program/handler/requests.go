package handler

import (
	"strings"
	"time"

	"auditflow/internal/program/models"
	dErrors "auditflow/pkg/domain-errors"
	pkgstrings "auditflow/pkg/platform/strings"
)

// auditRequest is one audit in a creation payload. Upstream clients send the
// objectives list under either the singular or the plural key; the plural
// wins when both are present and the singular key is empty.
type auditRequest struct {
	Scope            []string `json:"scope"`
	Objectives       []string `json:"specificAuditObjective"`
	ObjectivesPlural []string `json:"specificAuditObjectives"`
	Methods          []string `json:"methods"`
	Criteria         []string `json:"criteria"`
}

func (a *auditRequest) normalize() models.AuditInput {
	objectives := a.Objectives
	if len(objectives) == 0 {
		objectives = a.ObjectivesPlural
	}
	return models.AuditInput{
		Scope:      pkgstrings.DedupeAndTrim(a.Scope),
		Objectives: pkgstrings.DedupeAndTrim(objectives),
		Methods:    pkgstrings.DedupeAndTrim(a.Methods),
		Criteria:   pkgstrings.DedupeAndTrim(a.Criteria),
	}
}

// CreateProgramRequest is the POST /api/audit-programs payload. The tenant
// fields are optional: when present they are checked against the caller's
// token, when absent the token's tenant is used.
type CreateProgramRequest struct {
	Name       string         `json:"name"`
	Objective  string         `json:"auditProgramObjective"`
	StartDate  time.Time      `json:"startDate"`
	EndDate    time.Time      `json:"endDate"`
	TenantID   string         `json:"tenantId"`
	TenantName string         `json:"tenantName"`
	Audits     []auditRequest `json:"audits"`
}

// Validate normalizes the payload and checks everything the domain layer
// does not own: presence and basic shape.
func (r *CreateProgramRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Objective = strings.TrimSpace(r.Objective)
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.TenantName = strings.TrimSpace(r.TenantName)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "startDate and endDate are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "endDate cannot precede startDate")
	}
	if len(r.Audits) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one audit is required")
	}
	return nil
}

func (r *CreateProgramRequest) auditInputs() []models.AuditInput {
	inputs := make([]models.AuditInput, len(r.Audits))
	for i := range r.Audits {
		inputs[i] = r.Audits[i].normalize()
	}
	return inputs
}

// AddAuditRequest is the POST /api/audit-programs/{id}/audits payload.
type AddAuditRequest struct {
	auditRequest
}

func (r *AddAuditRequest) Validate() error {
	in := r.normalize()
	if len(in.Scope) == 0 {
		return dErrors.New(dErrors.CodeValidation, "scope is required")
	}
	if len(in.Objectives) == 0 {
		return dErrors.New(dErrors.CodeValidation, "specificAuditObjective is required")
	}
	if len(in.Methods) == 0 {
		return dErrors.New(dErrors.CodeValidation, "methods is required")
	}
	if len(in.Criteria) == 0 {
		return dErrors.New(dErrors.CodeValidation, "criteria is required")
	}
	return nil
}

// AssignTeamRequest is the PUT /api/audits/{id} payload.
type AssignTeamRequest struct {
	Team *models.Team `json:"team"`
}

func (r *AssignTeamRequest) Validate() error {
	if r.Team == nil {
		return dErrors.New(dErrors.CodeValidation, "team is required")
	}
	r.Team.Leader = strings.TrimSpace(r.Team.Leader)
	for i := range r.Team.Members {
		r.Team.Members[i] = strings.TrimSpace(r.Team.Members[i])
	}
	return r.Team.Validate()
}
