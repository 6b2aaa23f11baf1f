package domain

import (
	"strings"

	dErrors "auditflow/pkg/domain-errors"
)

// Role is the canonical role enumeration. Upstream systems spell roles
// inconsistently ("MR", "MANAGEMENT_REP", "AUDITOR GENERAL"); ParseRole is
// the single mapping from external representations to these values.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleManagementRep Role = "MANAGEMENT_REP"
	RoleAuditor       Role = "AUDITOR"
)

// ParseRole normalizes an external role spelling to its canonical Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "MANAGEMENT_REP", "MR", "AUDITOR GENERAL", "AUDITOR_GENERAL":
		return RoleManagementRep, nil
	case "AUDITOR":
		return RoleAuditor, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Identity is the resolved caller context attached to every request by the
// auth middleware: who is calling, for which tenant, with which role.
type Identity struct {
	UserID     UserID
	TenantID   TenantID
	TenantName string
	Role       Role
	Email      string
}

// IsZero reports whether no identity was resolved for the request.
func (i Identity) IsZero() bool {
	return i.UserID.IsNil()
}
