// Package events publishes lifecycle events to the message bus. Delivery is
// fire-and-forget from the caller's perspective: downstream consumers (the
// notification service) must never be able to fail an already-committed
// state transition.
package events

import (
	"time"

	id "auditflow/pkg/domain"
)

// TopicAuditSubmitted carries program submission events consumed by the
// notification dispatcher.
const TopicAuditSubmitted = "audit.submitted"

// ProgramSubmitted is the payload published when a program enters
// Pending Approval.
type ProgramSubmitted struct {
	ProgramID   id.ProgramID `json:"programId"`
	ProgramName string       `json:"programName"`
	TenantID    id.TenantID  `json:"tenantId"`
	TenantName  string       `json:"tenantName"`
	SubmittedBy id.UserID    `json:"submittedBy"`
	SubmittedAt time.Time    `json:"submittedAt"`
}
