package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ProgramStore,AcceptanceStore,Directory,EventPublisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"auditflow/internal/events"
	"auditflow/internal/program/models"
	"auditflow/internal/program/service/mocks"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
	"auditflow/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	programs    *mocks.MockProgramStore
	acceptances *mocks.MockAcceptanceStore
	directory   *mocks.MockDirectory
	events      *mocks.MockEventPublisher
	service     *Service

	tenantID id.TenantID
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.programs = mocks.NewMockProgramStore(s.ctrl)
	s.acceptances = mocks.NewMockAcceptanceStore(s.ctrl)
	s.directory = mocks.NewMockDirectory(s.ctrl)
	s.events = mocks.NewMockEventPublisher(s.ctrl)
	s.service = New(s.programs, s.acceptances, s.directory, WithEventPublisher(s.events))
	s.tenantID = id.NewTenantID()
	s.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) ctxAs(role id.Role, email string) context.Context {
	ctx := requestcontext.WithIdentity(context.Background(), id.Identity{
		UserID:   id.NewUserID(),
		TenantID: s.tenantID,
		Role:     role,
		Email:    email,
	})
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ServiceSuite) validInput() CreateProgramInput {
	return CreateProgramInput{
		Name:       "Annual Compliance Program",
		Objective:  "verify ISO conformance",
		StartDate:  s.now,
		EndDate:    s.now.AddDate(0, 6, 0),
		TenantID:   s.tenantID,
		TenantName: "Acme Corp",
		Audits: []models.AuditInput{{
			Scope:      []string{"Finance"},
			Objectives: []string{"Verify ledger controls"},
			Methods:    []string{"Interviews"},
			Criteria:   []string{"ISO 19011"},
		}},
	}
}

func (s *ServiceSuite) storedProgram(status models.Status) *models.AuditProgram {
	program, err := models.NewAuditProgram(
		"Annual Compliance Program", "verify ISO conformance",
		s.now, s.now.AddDate(0, 6, 0),
		s.tenantID, "Acme Corp", id.NewUserID(),
		[]models.AuditInput{{
			Scope:      []string{"Finance"},
			Objectives: []string{"Verify ledger controls"},
			Methods:    []string{"Interviews"},
			Criteria:   []string{"ISO 19011"},
		}},
		s.now,
	)
	s.Require().NoError(err)
	program.Status = status
	return program
}

func (s *ServiceSuite) TestCreateProgram() {
	s.T().Run("creates a draft with nested audits", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		var stored *models.AuditProgram
		s.programs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *models.AuditProgram) error {
				stored = p
				return nil
			})

		program, err := s.service.CreateProgram(ctx, s.validInput())
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, program.Status)
		assert.Len(t, program.Audits, 1)
		assert.Equal(t, program.ID, program.Audits[0].ProgramID)
		assert.Same(t, stored, program)
	})

	s.T().Run("rejects non-MR callers", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		_, err := s.service.CreateProgram(ctx, s.validInput())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("rejects creation for another tenant", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		in := s.validInput()
		in.TenantID = id.NewTenantID()
		_, err := s.service.CreateProgram(ctx, in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.T().Run("rejects an invalid audit without storing anything", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		in := s.validInput()
		in.Audits = append(in.Audits, models.AuditInput{Scope: []string{"IT"}})
		_, err := s.service.CreateProgram(ctx, in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("rejects end date before start date", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		in := s.validInput()
		in.EndDate = in.StartDate.AddDate(0, 0, -1)
		_, err := s.service.CreateProgram(ctx, in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestListPrograms() {
	draft := s.storedProgram(models.StatusDraft)
	active := s.storedProgram(models.StatusActive)
	active.Audits[0].Team = &models.Team{Leader: "lead@acme.test", Members: []string{"aud@acme.test"}}

	s.T().Run("MR sees every tenant program", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		s.programs.EXPECT().ListByTenant(gomock.Any(), s.tenantID).Return([]models.AuditProgram{*draft, *active}, nil)

		programs, err := s.service.ListPrograms(ctx)
		require.NoError(t, err)
		assert.Len(t, programs, 2)
	})

	s.T().Run("auditor only sees programs with their team membership", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAuditor, "aud@acme.test")
		s.programs.EXPECT().ListByTenant(gomock.Any(), s.tenantID).Return([]models.AuditProgram{*draft, *active}, nil)

		programs, err := s.service.ListPrograms(ctx)
		require.NoError(t, err)
		require.Len(t, programs, 1)
		assert.Equal(t, active.ID, programs[0].ID)
	})

	s.T().Run("unauthenticated callers are rejected", func(t *testing.T) {
		_, err := s.service.ListPrograms(context.Background())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ServiceSuite) TestListProgramsForAdmin() {
	s.T().Run("filters to the review statuses", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		pending := s.storedProgram(models.StatusPending)
		s.programs.EXPECT().ListByTenantAndStatus(gomock.Any(), s.tenantID, adminVisibleStatuses).
			Return([]models.AuditProgram{*pending}, nil)

		programs, err := s.service.ListProgramsForAdmin(ctx)
		require.NoError(t, err)
		require.Len(t, programs, 1)
		assert.Equal(t, models.StatusPending, programs[0].Status)
	})

	s.T().Run("rejects non-admin callers", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		_, err := s.service.ListProgramsForAdmin(ctx)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestGetProgram() {
	program := s.storedProgram(models.StatusDraft)

	s.T().Run("returns an owned program", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		found, err := s.service.GetProgram(ctx, program.ID)
		require.NoError(t, err)
		assert.Equal(t, program.ID, found.ID)
	})

	s.T().Run("cross-tenant reads report not found for non-MR roles", func(t *testing.T) {
		foreign := s.storedProgram(models.StatusDraft)
		foreign.TenantID = id.NewTenantID()
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), foreign.ID).Return(foreign, nil)

		_, err := s.service.GetProgram(ctx, foreign.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.T().Run("MR may read across tenants", func(t *testing.T) {
		foreign := s.storedProgram(models.StatusDraft)
		foreign.TenantID = id.NewTenantID()
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), foreign.ID).Return(foreign, nil)

		found, err := s.service.GetProgram(ctx, foreign.ID)
		require.NoError(t, err)
		assert.Equal(t, foreign.ID, found.ID)
	})

	s.T().Run("missing program reports not found", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), id.ProgramID("AP-missing")).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetProgram(ctx, id.ProgramID("AP-missing"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestAddAudit() {
	program := s.storedProgram(models.StatusDraft)
	input := models.AuditInput{
		Scope:      []string{"IT"},
		Objectives: []string{"Assess access controls"},
		Methods:    []string{"Sampling"},
		Criteria:   []string{"ISO 27001"},
	}

	s.T().Run("appends an audit", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.programs.EXPECT().AddAudit(gomock.Any(), gomock.Any()).Return(nil)

		audit, err := s.service.AddAudit(ctx, program.ID, input)
		require.NoError(t, err)
		assert.Equal(t, program.ID, audit.ProgramID)
	})

	s.T().Run("rejects empty scope", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, err := s.service.AddAudit(ctx, program.ID, models.AuditInput{Objectives: []string{"x"}, Methods: []string{"x"}, Criteria: []string{"x"}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestSubmit() {
	s.T().Run("moves draft to pending and emits the event", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusDraft)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.programs.EXPECT().UpdateStatus(gomock.Any(), program.ID, models.StatusDraft, models.StatusPending, s.now).Return(nil)
		s.events.EXPECT().ProgramSubmitted(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, event events.ProgramSubmitted) error {
				assert.Equal(t, program.ID, event.ProgramID)
				assert.Equal(t, s.tenantID, event.TenantID)
				assert.Equal(t, s.now, event.SubmittedAt)
				return nil
			})

		updated, err := s.service.Submit(ctx, program.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	s.T().Run("publish failure does not fail the submit", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusDraft)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.programs.EXPECT().UpdateStatus(gomock.Any(), program.ID, models.StatusDraft, models.StatusPending, s.now).Return(nil)
		s.events.EXPECT().ProgramSubmitted(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		updated, err := s.service.Submit(ctx, program.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	s.T().Run("re-submit of a pending program is a no-op", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusPending)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		updated, err := s.service.Submit(ctx, program.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	s.T().Run("cannot submit an active program", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusActive)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, err := s.service.Submit(ctx, program.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("cannot submit for another tenant", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		program := s.storedProgram(models.StatusDraft)
		program.TenantID = id.NewTenantID()
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, err := s.service.Submit(ctx, program.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestAdminTransitions() {
	cases := []struct {
		name string
		from models.Status
		to   models.Status
		call func(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	}{
		{"approve", models.StatusPending, models.StatusActive, s.service.Approve},
		{"reject", models.StatusPending, models.StatusDraft, s.service.Reject},
		{"complete", models.StatusActive, models.StatusCompleted, s.service.Complete},
	}

	for _, tc := range cases {
		s.T().Run(tc.name, func(t *testing.T) {
			ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
			program := s.storedProgram(tc.from)
			s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
			s.programs.EXPECT().UpdateStatus(gomock.Any(), program.ID, tc.from, tc.to, s.now).Return(nil)

			updated, err := tc.call(ctx, program.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
		})
	}

	s.T().Run("wrong source status yields invalid transition", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		program := s.storedProgram(models.StatusDraft)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)

		_, err := s.service.Approve(ctx, program.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("losing a concurrent transition yields invalid transition", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleAdmin, "admin@acme.test")
		program := s.storedProgram(models.StatusPending)
		s.programs.EXPECT().FindByID(gomock.Any(), program.ID).Return(program, nil)
		s.programs.EXPECT().UpdateStatus(gomock.Any(), program.ID, models.StatusPending, models.StatusActive, s.now).
			Return(sentinel.ErrStaleStatus)

		_, err := s.service.Approve(ctx, program.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.T().Run("MR cannot approve", func(t *testing.T) {
		ctx := s.ctxAs(id.RoleManagementRep, "mr@acme.test")
		_, err := s.service.Approve(ctx, id.ProgramID("AP-any"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
