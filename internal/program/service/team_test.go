package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"auditflow/internal/directory"
	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
)

func (s *ServiceSuite) tenantAuditors(emails ...string) []directory.Auditor {
	auditors := make([]directory.Auditor, len(emails))
	for i, email := range emails {
		auditors[i] = directory.Auditor{ID: id.NewUserID(), Email: email, CreatedAt: s.now}
	}
	return auditors
}

func (s *ServiceSuite) TestAssignTeam() {
	team := &models.Team{Leader: "lead@acme.test", Members: []string{"aud@acme.test"}}

	s.T().Run("assigns a valid team on an active program", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusActive)
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.directory.EXPECT().AuditorsByTenant(gomock.Any(), s.tenantID).
			Return(s.tenantAuditors("lead@acme.test", "aud@acme.test"), nil)
		s.programs.EXPECT().UpdateTeam(gomock.Any(), audit.ID, team).Return(nil)

		updated, err := s.service.AssignTeam(ctx, audit.ID, team)
		require.NoError(t, err)
		assert.Equal(t, team, updated.Team)
	})

	s.T().Run("rejects a member outside the tenant directory", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusActive)
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.directory.EXPECT().AuditorsByTenant(gomock.Any(), s.tenantID).
			Return(s.tenantAuditors("lead@acme.test"), nil)

		_, err := s.service.AssignTeam(ctx, audit.ID, team)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("rejects assignment while the program is not active", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusDraft)
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, err := s.service.AssignTeam(ctx, audit.ID, team)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("rejects a structurally invalid team", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		_, err := s.service.AssignTeam(ctx, id.AuditID("A-1"), &models.Team{Leader: "  "})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("rejects duplicate members", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		dup := &models.Team{Leader: "lead@acme.test", Members: []string{"aud@acme.test", "aud@acme.test"}}
		_, err := s.service.AssignTeam(ctx, id.AuditID("A-1"), dup)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("missing audit reports not found", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		s.programs.EXPECT().FindAuditByID(gomock.Any(), id.AuditID("A-missing")).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.AssignTeam(ctx, id.AuditID("A-missing"), team)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.T().Run("auditors cannot assign teams", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		_, err := s.service.AssignTeam(ctx, id.AuditID("A-1"), team)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestAcceptInvitation() {
	team := &models.Team{Leader: "lead@acme.test", Members: []string{"aud@acme.test"}}

	s.T().Run("records a first acceptance", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		program := s.storedProgram(models.StatusActive)
		program.Audits[0].Team = team
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.acceptances.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, acc models.AcceptedAudit) error {
				assert.Equal(t, audit.ID, acc.AuditID)
				assert.Equal(t, s.now, acc.AcceptedAt)
				return nil
			})

		acceptance, created, err := s.service.AcceptInvitation(ctx, audit.ID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, audit.ID, acceptance.AuditID)
	})

	s.T().Run("repeat acceptance is a no-op returning the existing record", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		program := s.storedProgram(models.StatusActive)
		program.Audits[0].Team = team
		audit := program.Audits[0]
		earlier := s.now.Add(-time.Hour)

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.acceptances.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)
		s.acceptances.EXPECT().Find(gomock.Any(), audit.ID, gomock.Any()).
			Return(&models.AcceptedAudit{AuditID: audit.ID, AcceptedAt: earlier}, nil)

		acceptance, created, err := s.service.AcceptInvitation(ctx, audit.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, earlier, acceptance.AcceptedAt)
	})

	s.T().Run("rejects auditors not on the team", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "other@acme.test")
		program := s.storedProgram(models.StatusActive)
		program.Audits[0].Team = team
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, _, err := s.service.AcceptInvitation(ctx, audit.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("rejects non-auditor callers", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		_, _, err := s.service.AcceptInvitation(ctx, id.AuditID("A-1"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("cross-tenant audit reads as not found", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		program := s.storedProgram(models.StatusActive)
		program.TenantID = id.NewTenantID()
		program.Audits[0].Team = team
		audit := program.Audits[0]

		s.programs.EXPECT().FindAuditByID(gomock.Any(), audit.ID).Return(&audit, nil)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, _, err := s.service.AcceptInvitation(ctx, audit.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
