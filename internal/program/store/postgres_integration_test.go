//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"auditflow/internal/program/models"
	"auditflow/internal/program/store"
	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/sentinel"
	"auditflow/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	store       *store.PostgresStore
	acceptances *store.PostgresAcceptanceStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.acceptances = store.NewPostgresAcceptances(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_acceptances", "audits", "audit_programs")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newProgram(now time.Time) *models.AuditProgram {
	program, err := models.NewAuditProgram(
		"Q2 Internal Audit", "coverage of core processes",
		now, now.AddDate(0, 3, 0),
		id.NewTenantID(), "Acme Corp", id.NewUserID(),
		[]models.AuditInput{{
			Scope:      []string{"procurement"},
			Objectives: []string{"verify supplier onboarding"},
			Methods:    []string{"sampling"},
			Criteria:   []string{"ISO 9001"},
		}},
		now,
	)
	s.Require().NoError(err)
	return program
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	program := s.newProgram(now)

	s.Require().NoError(s.store.Create(ctx, program))

	found, err := s.store.FindByID(ctx, program.ID)
	s.Require().NoError(err)
	s.Equal(program.ID, found.ID)
	s.Equal(models.StatusDraft, found.Status)
	s.Equal(program.TenantID, found.TenantID)
	s.Require().Len(found.Audits, 1)
	s.Equal(program.Audits[0].ID, found.Audits[0].ID)
	s.Equal([]string{"procurement"}, found.Audits[0].Scope)
}

func (s *PostgresStoreSuite) TestListByTenantScopesAndOrders() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	older := s.newProgram(base.Add(-time.Hour))
	newer := s.newProgram(base)
	newer.TenantID = older.TenantID
	other := s.newProgram(base)

	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, newer))
	s.Require().NoError(s.store.Create(ctx, other))

	programs, err := s.store.ListByTenant(ctx, older.TenantID)
	s.Require().NoError(err)
	s.Require().Len(programs, 2)
	s.Equal(newer.ID, programs[0].ID, "newest first")
	s.Equal(older.ID, programs[1].ID)
}

func (s *PostgresStoreSuite) TestConditionalStatusUpdate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	program := s.newProgram(now)
	s.Require().NoError(s.store.Create(ctx, program))

	err := s.store.UpdateStatus(ctx, program.ID, models.StatusDraft, models.StatusPending, now)
	s.Require().NoError(err)

	// Same from-status again is stale now.
	err = s.store.UpdateStatus(ctx, program.ID, models.StatusDraft, models.StatusPending, now)
	s.Require().ErrorIs(err, sentinel.ErrStaleStatus)

	err = s.store.UpdateStatus(ctx, "AP-missing", models.StatusDraft, models.StatusPending, now)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentTransitionsOneWinner drives the approve/reject race through
// real row-level concurrency: exactly one transition may commit.
func (s *PostgresStoreSuite) TestConcurrentTransitionsOneWinner() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	program := s.newProgram(now)
	s.Require().NoError(s.store.Create(ctx, program))
	s.Require().NoError(s.store.UpdateStatus(ctx, program.ID, models.StatusDraft, models.StatusPending, now))

	targets := []models.Status{models.StatusActive, models.StatusDraft}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to models.Status) {
			defer wg.Done()
			errs[i] = s.store.UpdateStatus(ctx, program.ID, models.StatusPending, to, now)
		}(i, to)
	}
	wg.Wait()

	var wins, stale int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			s.Require().ErrorIs(err, sentinel.ErrStaleStatus)
			stale++
		}
	}
	s.Equal(1, wins, "exactly one transition commits")
	s.Equal(1, stale)
}

func (s *PostgresStoreSuite) TestAddAuditAndTeamAssignment() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	program := s.newProgram(now)
	s.Require().NoError(s.store.Create(ctx, program))

	extra, err := models.NewAudit(program.ID, models.AuditInput{
		Scope:      []string{"it-security"},
		Objectives: []string{"review access controls"},
		Methods:    []string{"interviews"},
		Criteria:   []string{"ISO 27001"},
	}, now.Add(time.Second))
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddAudit(ctx, extra))

	team := &models.Team{Leader: "lead@acme.test", Members: []string{"aud@acme.test"}}
	s.Require().NoError(s.store.UpdateTeam(ctx, extra.ID, team))

	found, err := s.store.FindAuditByID(ctx, extra.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Team)
	s.Equal("lead@acme.test", found.Team.Leader)
	s.Equal([]string{"aud@acme.test"}, found.Team.Members)

	_, err = s.store.FindAuditByID(ctx, "A-missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAcceptanceUniquePerAuditorAndAudit() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	program := s.newProgram(now)
	s.Require().NoError(s.store.Create(ctx, program))

	acceptance := models.AcceptedAudit{
		AuditID:    program.Audits[0].ID,
		AuditorID:  id.NewUserID(),
		AcceptedAt: now,
	}
	s.Require().NoError(s.acceptances.Create(ctx, acceptance))

	err := s.acceptances.Create(ctx, acceptance)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.acceptances.Find(ctx, acceptance.AuditID, acceptance.AuditorID)
	s.Require().NoError(err)
	s.Equal(acceptance.AuditID, found.AuditID)
	s.Equal(acceptance.AuditorID, found.AuditorID)
}
