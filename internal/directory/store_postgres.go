package directory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "auditflow/pkg/domain"
)

// PostgresStore reads personnel from the shared users/departments tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AuditorsByTenant(ctx context.Context, tenantID id.TenantID) ([]Auditor, error) {
	const query = `
		SELECT id, email, created_at
		FROM users
		WHERE tenant_id = $1 AND role = 'AUDITOR'
		ORDER BY email
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("query auditors: %w", err)
	}
	defer rows.Close()

	var auditors []Auditor
	for rows.Next() {
		var a Auditor
		var userID uuid.UUID
		if err := rows.Scan(&userID, &a.Email, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auditor: %w", err)
		}
		a.ID = id.UserID(userID)
		auditors = append(auditors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auditors: %w", err)
	}
	return auditors, nil
}

func (s *PostgresStore) DepartmentHeadsByTenant(ctx context.Context, tenantID id.TenantID) ([]DepartmentHead, error) {
	const query = `
		SELECT d.name, u.first_name || ' ' || u.last_name, u.email
		FROM departments d
		JOIN users u ON u.id = d.head_id
		WHERE d.tenant_id = $1
		ORDER BY d.name
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("query department heads: %w", err)
	}
	defer rows.Close()

	var heads []DepartmentHead
	for rows.Next() {
		var h DepartmentHead
		if err := rows.Scan(&h.Department, &h.Name, &h.Email); err != nil {
			return nil, fmt.Errorf("scan department head: %w", err)
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department heads: %w", err)
	}
	return heads, nil
}
