// Package domain defines the typed identifiers and shared value types used
// across services. Distinct ID types prevent accidental cross-assignment
// between user, tenant, program, and audit identifiers.
package domain

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	dErrors "auditflow/pkg/domain-errors"
)

// UserID identifies a platform user.
type UserID uuid.UUID

// TenantID identifies an institution; the top-level isolation boundary.
type TenantID uuid.UUID

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id TenantID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep the canonical uuid string form on the wire;
// without them a defined uuid type serializes as a raw byte array.
func (id UserID) MarshalText() ([]byte, error)   { return []byte(uuid.UUID(id).String()), nil }
func (id TenantID) MarshalText() ([]byte, error) { return []byte(uuid.UUID(id).String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *TenantID) UnmarshalText(text []byte) error {
	parsed, err := ParseTenantID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID generates a random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewTenantID generates a random tenant ID.
func NewTenantID() TenantID { return TenantID(uuid.New()) }

// ParseUserID parses a user ID from its string form. Empty and nil UUIDs are
// rejected: identifiers cross trust boundaries and must always be meaningful.
func ParseUserID(s string) (UserID, error) {
	u, err := parseNonNilUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseTenantID parses a tenant ID from its string form.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseNonNilUUID(s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(u), nil
}

func parseNonNilUUID(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "invalid id %q", s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id cannot be the nil uuid")
	}
	return u, nil
}

// ProgramID identifies an audit program. Tokens are time-ordered with an
// "AP-" prefix, matching the ingest format of upstream systems.
type ProgramID string

// AuditID identifies a single audit within a program ("A-" prefix).
type AuditID string

const (
	programIDPrefix = "AP-"
	auditIDPrefix   = "A-"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newToken(prefix string, now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return prefix + ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// NewProgramID generates a time-ordered program identifier.
func NewProgramID(now time.Time) ProgramID {
	return ProgramID(newToken(programIDPrefix, now))
}

// NewAuditID generates a time-ordered audit identifier.
func NewAuditID(now time.Time) AuditID {
	return AuditID(newToken(auditIDPrefix, now))
}

func (id ProgramID) String() string { return string(id) }
func (id AuditID) String() string   { return string(id) }
