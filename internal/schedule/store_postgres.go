package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/sentinel"
)

// PostgresStore persists schedules as one JSONB document per audit.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed schedule store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, schedule *Schedule) error {
	entries, err := json.Marshal(schedule.Entries)
	if err != nil {
		return fmt.Errorf("encode schedule entries: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_schedules (audit_id, entries, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (audit_id) DO UPDATE SET
			entries = EXCLUDED.entries,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`, string(schedule.AuditID), entries, uuid.UUID(schedule.UpdatedBy), schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, auditID id.AuditID) (*Schedule, error) {
	var (
		schedule Schedule
		entries  []byte
		updater  uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT entries, updated_by, updated_at
		FROM audit_schedules
		WHERE audit_id = $1
	`, string(auditID)).Scan(&entries, &updater, &schedule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	if err := json.Unmarshal(entries, &schedule.Entries); err != nil {
		return nil, fmt.Errorf("decode schedule entries: %w", err)
	}
	schedule.AuditID = auditID
	schedule.UpdatedBy = id.UserID(updater)
	return &schedule, nil
}
