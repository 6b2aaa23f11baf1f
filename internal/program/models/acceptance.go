package models

import (
	"time"

	id "auditflow/pkg/domain"
)

// AcceptedAudit records that an auditor accepted a team invitation for an
// audit. Unique per (AuditID, AuditorID); a repeated accept is a no-op that
// returns the existing record.
type AcceptedAudit struct {
	AuditID    id.AuditID `json:"auditId"`
	AuditorID  id.UserID  `json:"auditorId"`
	AcceptedAt time.Time  `json:"acceptedAt"`
}
