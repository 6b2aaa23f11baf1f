package schedule

import (
	"fmt"
	"strings"
)

// TimetableRow is one rendered activity line.
type TimetableRow struct {
	Time           string `json:"time"`
	Activity       string `json:"activity"`
	Responsibility string `json:"responsibility"`
}

// TimetableDay is one day bucket of the rendered timetable.
type TimetableDay struct {
	Label string         `json:"label"`
	Date  string         `json:"date"`
	Rows  []TimetableRow `json:"rows"`
}

// Display labels substituted when a responsibility selection covers the full
// candidate set.
const (
	labelAllAuditors = "Auditors"
	labelAllAuditee  = "Auditee Management"
)

// DeriveTimetable renders a flat entry list into day buckets. Pure and
// deterministic: days appear in first-seen order of their calendar date, not
// sorted, and rows keep the entry order. A selection equal to the full
// candidate set collapses to its display label; a partial selection is
// comma-joined. The auditor and auditee parts are joined with " | ".
func DeriveTimetable(entries []Entry, allAuditors, auditeeHeads []string) []TimetableDay {
	var days []TimetableDay
	index := make(map[string]int)

	for _, e := range entries {
		date := e.Date.Format("2006-01-02")
		i, seen := index[date]
		if !seen {
			i = len(days)
			index[date] = i
			days = append(days, TimetableDay{
				Label: fmt.Sprintf("DAY %d – %s", i+1, e.Date.Format("Monday, January 2, 2006")),
				Date:  date,
			})
		}
		days[i].Rows = append(days[i].Rows, TimetableRow{
			Time:           e.StartTime + " - " + e.EndTime,
			Activity:       e.Activity,
			Responsibility: renderResponsibility(e.Responsibility, allAuditors, auditeeHeads),
		})
	}
	return days
}

func renderResponsibility(sel Selection, allAuditors, auditeeHeads []string) string {
	var parts []string
	if p := renderSelection(sel.Auditors, allAuditors, labelAllAuditors); p != "" {
		parts = append(parts, p)
	}
	if p := renderSelection(sel.Auditee, auditeeHeads, labelAllAuditee); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " | ")
}

// renderSelection collapses a full selection to its label by count equality
// against the candidate set.
func renderSelection(selected, candidates []string, allLabel string) string {
	if len(selected) == 0 {
		return ""
	}
	if len(candidates) > 0 && len(selected) == len(candidates) {
		return allLabel
	}
	return strings.Join(selected, ", ")
}

// ToggleSelectAll implements the select-all checkbox: an already-full
// selection clears, anything else becomes the full candidate list.
func ToggleSelectAll(selected, candidates []string) []string {
	if len(candidates) > 0 && len(selected) == len(candidates) {
		return nil
	}
	return append([]string(nil), candidates...)
}
