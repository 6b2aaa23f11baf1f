package models

import dErrors "auditflow/pkg/domain-errors"

// Status is the lifecycle state of an audit program. Wire values are the
// human-readable strings used by every upstream consumer; do not normalize
// the embedded spaces.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPending   Status = "Pending Approval"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"

	// StatusScheduled appears in admin list filters but no transition
	// produces it. It is reserved until the trigger is defined.
	StatusScheduled Status = "Scheduled"
)

// transitions holds the only legal status edges. Monotonic along
// Draft → Pending Approval → Active → Completed; rejection
// (Pending Approval → Draft) is the single backward edge.
var transitions = map[Status][]Status{
	StatusDraft:   {StatusPending},
	StatusPending: {StatusActive, StatusDraft},
	StatusActive:  {StatusCompleted},
}

// ParseStatus validates a status string from storage or a list filter.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPending, StatusActive, StatusCompleted, StatusScheduled:
		return Status(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown status %q", s)
	}
}

// CanTransitionTo reports whether the edge from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }
