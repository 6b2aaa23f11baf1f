package service

import (
	"context"
	"errors"

	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
	"auditflow/pkg/requestcontext"
)

// AssignTeam sets or replaces the team of an audit. Management
// Representative only; the parent program must be Active and every referenced
// email must belong to an auditor of the caller's tenant.
func (s *Service) AssignTeam(ctx context.Context, auditID id.AuditID, team *models.Team) (*models.Audit, error) {
	caller, err := requireRole(ctx, id.RoleManagementRep)
	if err != nil {
		return nil, err
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}

	audit, program, err := s.loadTenantAudit(ctx, auditID, caller.TenantID)
	if err != nil {
		return nil, err
	}
	if program.Status != models.StatusActive {
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition, "teams can only be assigned while a program is %q", models.StatusActive)
	}
	if err := s.validateTeamMembership(ctx, caller.TenantID, team); err != nil {
		return nil, err
	}

	if err := s.programs.UpdateTeam(ctx, audit.ID, team); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign team")
	}
	audit.Team = team

	s.logger.InfoContext(ctx, "audit team assigned",
		"request_id", requestcontext.RequestID(ctx),
		"audit_id", audit.ID,
		"program_id", program.ID,
		"team_size", len(team.All()),
	)
	s.metrics.IncrementTeamsAssigned()
	return audit, nil
}

// AcceptInvitation records the caller's acceptance of their team invitation.
// Auditor only; accepting twice is a no-op that returns the existing record.
func (s *Service) AcceptInvitation(ctx context.Context, auditID id.AuditID) (*models.AcceptedAudit, bool, error) {
	caller, err := requireRole(ctx, id.RoleAuditor)
	if err != nil {
		return nil, false, err
	}

	audit, program, err := s.loadTenantAudit(ctx, auditID, caller.TenantID)
	if err != nil {
		return nil, false, err
	}
	if !audit.Team.Includes(caller.Email) {
		return nil, false, dErrors.New(dErrors.CodeForbidden, "you are not on this audit team")
	}

	acceptance := models.AcceptedAudit{
		AuditID:    audit.ID,
		AuditorID:  caller.UserID,
		AcceptedAt: requestcontext.Now(ctx),
	}
	if err := s.acceptances.Create(ctx, acceptance); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			existing, findErr := s.acceptances.Find(ctx, audit.ID, caller.UserID)
			if findErr != nil {
				return nil, false, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to load acceptance")
			}
			return existing, false, nil
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record acceptance")
	}

	s.logger.InfoContext(ctx, "team invitation accepted",
		"request_id", requestcontext.RequestID(ctx),
		"audit_id", audit.ID,
		"program_id", program.ID,
		"auditor_id", caller.UserID,
	)
	s.metrics.IncrementInvitationsAccepted()
	return &acceptance, true, nil
}

// validateTeamMembership confirms every referenced email resolves to an
// auditor of the tenant. Client-side pickers are not trusted.
func (s *Service) validateTeamMembership(ctx context.Context, tenantID id.TenantID, team *models.Team) error {
	auditors, err := s.directory.AuditorsByTenant(ctx, tenantID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve tenant auditors")
	}
	known := make(map[string]bool, len(auditors))
	for _, a := range auditors {
		known[a.Email] = true
	}
	for _, email := range team.All() {
		if !known[email] {
			return dErrors.Newf(dErrors.CodeValidation, "%q is not an auditor of this tenant", email)
		}
	}
	return nil
}

// loadTenantAudit fetches an audit and its parent program, confirming tenant
// ownership of the parent.
func (s *Service) loadTenantAudit(ctx context.Context, auditID id.AuditID, tenantID id.TenantID) (*models.Audit, *models.AuditProgram, error) {
	audit, err := s.programs.FindAuditByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit")
	}
	program, err := s.loadTenantProgram(ctx, audit.ProgramID, tenantID)
	if err != nil {
		return nil, nil, err
	}
	return audit, program, nil
}
