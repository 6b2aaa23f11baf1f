// Package schedule manages per-audit execution schedules and derives
// presentation timetables from them.
package schedule

import (
	"strings"
	"time"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
)

// Selection names the people responsible for a schedule entry, split into
// the audit-team side and the auditee side.
type Selection struct {
	Auditors []string `json:"auditors"`
	Auditee  []string `json:"auditee"`
}

// Entry is one scheduled activity.
type Entry struct {
	Date           time.Time `json:"date"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	Activity       string    `json:"activity"`
	Responsibility Selection `json:"responsibility"`
}

// Validate checks one entry. Times use the 24h "15:04" wall-clock form.
func (e *Entry) Validate() error {
	if e.Date.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "entry date is required")
	}
	start, err := time.Parse("15:04", e.StartTime)
	if err != nil {
		return dErrors.Newf(dErrors.CodeValidation, "invalid start time %q", e.StartTime)
	}
	end, err := time.Parse("15:04", e.EndTime)
	if err != nil {
		return dErrors.Newf(dErrors.CodeValidation, "invalid end time %q", e.EndTime)
	}
	if !end.After(start) {
		return dErrors.New(dErrors.CodeValidation, "end time must be after start time")
	}
	if strings.TrimSpace(e.Activity) == "" {
		return dErrors.New(dErrors.CodeValidation, "activity is required")
	}
	return nil
}

// Schedule is the full entry list of one audit, replaced whole on save.
type Schedule struct {
	AuditID   id.AuditID `json:"auditId"`
	Entries   []Entry    `json:"entries"`
	UpdatedBy id.UserID  `json:"updatedBy"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
