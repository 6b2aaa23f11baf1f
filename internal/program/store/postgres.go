package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/sentinel"
)

// PostgresStore persists audit programs and their nested audits in
// PostgreSQL. List fields are stored as JSONB documents; teams too, since
// they are read and replaced whole.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed program store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a program and all of its audits in one transaction.
func (s *PostgresStore) Create(ctx context.Context, program *models.AuditProgram) error {
	if program == nil {
		return fmt.Errorf("program is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create program: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_programs (id, name, objective, status, start_date, end_date, tenant_id, tenant_name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, string(program.ID), program.Name, program.Objective, string(program.Status),
		program.StartDate, program.EndDate, uuid.UUID(program.TenantID), program.TenantName,
		uuid.UUID(program.CreatedBy), program.CreatedAt, program.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert program: %w", err)
	}

	for i := range program.Audits {
		if err := insertAudit(ctx, tx, &program.Audits[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create program: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, objective, status, start_date, end_date, tenant_id, tenant_name, created_by, created_at, updated_at
		FROM audit_programs
		WHERE id = $1
	`, string(programID))
	program, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	audits, err := s.auditsForPrograms(ctx, []id.ProgramID{program.ID})
	if err != nil {
		return nil, err
	}
	program.Audits = audits[program.ID]
	return program, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]models.AuditProgram, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, objective, status, start_date, end_date, tenant_id, tenant_name, created_by, created_at, updated_at
		FROM audit_programs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	return s.collectPrograms(ctx, rows)
}

func (s *PostgresStore) ListByTenantAndStatus(ctx context.Context, tenantID id.TenantID, statuses []models.Status) ([]models.AuditProgram, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}
	statusJSON, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode status filter: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, objective, status, start_date, end_date, tenant_id, tenant_name, created_by, created_at, updated_at
		FROM audit_programs
		WHERE tenant_id = $1
		  AND status IN (SELECT jsonb_array_elements_text($2::jsonb))
		ORDER BY created_at DESC
	`, uuid.UUID(tenantID), statusJSON)
	if err != nil {
		return nil, fmt.Errorf("list programs by status: %w", err)
	}
	defer rows.Close()
	return s.collectPrograms(ctx, rows)
}

// UpdateStatus commits the transition only when the current status still
// equals from. Zero affected rows with an existing program means another
// actor transitioned it first.
func (s *PostgresStore) UpdateStatus(ctx context.Context, programID id.ProgramID, from, to models.Status, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE audit_programs
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, string(to), at, string(programID), string(from))
	if err != nil {
		return fmt.Errorf("update program status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update program status: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM audit_programs WHERE id = $1)`, string(programID)).Scan(&exists); err != nil {
			return fmt.Errorf("check program exists: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrStaleStatus
	}
	return nil
}

func (s *PostgresStore) AddAudit(ctx context.Context, audit *models.Audit) error {
	if audit == nil {
		return fmt.Errorf("audit is required")
	}
	if err := insertAudit(ctx, s.db, audit); err != nil {
		return err
	}
	return nil
}

func (s *PostgresStore) FindAuditByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, program_id, scope, objectives, methods, criteria, team, created_at
		FROM audits
		WHERE id = $1
	`, string(auditID))
	audit, err := scanAudit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find audit: %w", err)
	}
	return audit, nil
}

func (s *PostgresStore) UpdateTeam(ctx context.Context, auditID id.AuditID, team *models.Team) error {
	teamJSON, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE audits SET team = $1 WHERE id = $2
	`, teamJSON, string(auditID))
	if err != nil {
		return fmt.Errorf("update audit team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update audit team: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// execer covers *sql.DB and *sql.Tx for audit inserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAudit(ctx context.Context, db execer, audit *models.Audit) error {
	scope, objectives, methods, criteria, err := encodeAuditLists(audit)
	if err != nil {
		return err
	}
	var team any
	if audit.Team != nil {
		team, err = json.Marshal(audit.Team)
		if err != nil {
			return fmt.Errorf("encode team: %w", err)
		}
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO audits (id, program_id, scope, objectives, methods, criteria, team, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, string(audit.ID), string(audit.ProgramID), scope, objectives, methods, criteria, team, audit.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func encodeAuditLists(audit *models.Audit) (scope, objectives, methods, criteria []byte, err error) {
	if scope, err = json.Marshal(audit.Scope); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode scope: %w", err)
	}
	if objectives, err = json.Marshal(audit.Objectives); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode objectives: %w", err)
	}
	if methods, err = json.Marshal(audit.Methods); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode methods: %w", err)
	}
	if criteria, err = json.Marshal(audit.Criteria); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode criteria: %w", err)
	}
	return scope, objectives, methods, criteria, nil
}

func (s *PostgresStore) collectPrograms(ctx context.Context, rows *sql.Rows) ([]models.AuditProgram, error) {
	var programs []models.AuditProgram
	var ids []id.ProgramID
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, *program)
		ids = append(ids, program.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	if len(programs) == 0 {
		return programs, nil
	}
	audits, err := s.auditsForPrograms(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range programs {
		programs[i].Audits = audits[programs[i].ID]
	}
	return programs, nil
}

// auditsForPrograms loads the audits of several programs in one query to
// avoid per-program round trips on list endpoints.
func (s *PostgresStore) auditsForPrograms(ctx context.Context, ids []id.ProgramID) (map[id.ProgramID][]models.Audit, error) {
	values := make([]string, len(ids))
	for i, pid := range ids {
		values[i] = string(pid)
	}
	idsJSON, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode program ids: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, program_id, scope, objectives, methods, criteria, team, created_at
		FROM audits
		WHERE program_id IN (SELECT jsonb_array_elements_text($1::jsonb))
		ORDER BY created_at ASC
	`, idsJSON)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	out := make(map[id.ProgramID][]models.Audit, len(ids))
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		out[audit.ProgramID] = append(out[audit.ProgramID], *audit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audits: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*models.AuditProgram, error) {
	var (
		p        models.AuditProgram
		pid      string
		status   string
		tenantID uuid.UUID
		creator  uuid.UUID
	)
	err := row.Scan(&pid, &p.Name, &p.Objective, &status, &p.StartDate, &p.EndDate,
		&tenantID, &p.TenantName, &creator, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.ProgramID(pid)
	p.Status = models.Status(status)
	p.TenantID = id.TenantID(tenantID)
	p.CreatedBy = id.UserID(creator)
	return &p, nil
}

func scanAudit(row rowScanner) (*models.Audit, error) {
	var (
		a          models.Audit
		aid        string
		pid        string
		scope      []byte
		objectives []byte
		methods    []byte
		criteria   []byte
		team       []byte
	)
	err := row.Scan(&aid, &pid, &scope, &objectives, &methods, &criteria, &team, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = id.AuditID(aid)
	a.ProgramID = id.ProgramID(pid)
	if err := json.Unmarshal(scope, &a.Scope); err != nil {
		return nil, fmt.Errorf("decode scope: %w", err)
	}
	if err := json.Unmarshal(objectives, &a.Objectives); err != nil {
		return nil, fmt.Errorf("decode objectives: %w", err)
	}
	if err := json.Unmarshal(methods, &a.Methods); err != nil {
		return nil, fmt.Errorf("decode methods: %w", err)
	}
	if err := json.Unmarshal(criteria, &a.Criteria); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	if len(team) > 0 {
		a.Team = &models.Team{}
		if err := json.Unmarshal(team, a.Team); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
	}
	return &a, nil
}

// PostgresAcceptanceStore persists invitation acceptances.
type PostgresAcceptanceStore struct {
	db *sql.DB
}

// NewPostgresAcceptances constructs a PostgreSQL-backed acceptance store.
func NewPostgresAcceptances(db *sql.DB) *PostgresAcceptanceStore {
	return &PostgresAcceptanceStore{db: db}
}

func (s *PostgresAcceptanceStore) Create(ctx context.Context, acceptance models.AcceptedAudit) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_acceptances (audit_id, auditor_id, accepted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (audit_id, auditor_id) DO NOTHING
	`, string(acceptance.AuditID), uuid.UUID(acceptance.AuditorID), acceptance.AcceptedAt)
	if err != nil {
		return fmt.Errorf("insert acceptance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert acceptance: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresAcceptanceStore) Find(ctx context.Context, auditID id.AuditID, auditorID id.UserID) (*models.AcceptedAudit, error) {
	var (
		acc models.AcceptedAudit
		aid string
		uid uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT audit_id, auditor_id, accepted_at
		FROM audit_acceptances
		WHERE audit_id = $1 AND auditor_id = $2
	`, string(auditID), uuid.UUID(auditorID)).Scan(&aid, &uid, &acc.AcceptedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find acceptance: %w", err)
	}
	acc.AuditID = id.AuditID(aid)
	acc.AuditorID = id.UserID(uid)
	return &acc, nil
}
