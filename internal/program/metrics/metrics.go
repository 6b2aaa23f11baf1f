package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the program lifecycle module.
// Tracks creation counts, transition outcomes, and critical path durations.
type Metrics struct {
	ProgramsCreated     prometheus.Counter
	Transitions         *prometheus.CounterVec
	TeamsAssigned       prometheus.Counter
	InvitationsAccepted prometheus.Counter
	CreateDuration      prometheus.Histogram
	TransitionDuration  prometheus.Histogram
	ListDuration        prometheus.Histogram
}

// New creates a Metrics instance with all program module metrics registered.
func New() *Metrics {
	return &Metrics{
		ProgramsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditflow_programs_created_total",
			Help: "Total number of audit programs created",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "auditflow_program_transitions_total",
			Help: "Program status transitions by target status and outcome",
		}, []string{"to", "outcome"}),
		TeamsAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditflow_teams_assigned_total",
			Help: "Total number of audit team assignments",
		}),
		InvitationsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "auditflow_invitations_accepted_total",
			Help: "Total number of accepted team invitations",
		}),
		CreateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditflow_program_create_duration_seconds",
			Help:    "Duration of CreateProgram operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditflow_program_transition_duration_seconds",
			Help:    "Duration of submit/approve/reject/complete operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "auditflow_program_list_duration_seconds",
			Help:    "Duration of program list operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementProgramsCreated records a successful program creation.
func (m *Metrics) IncrementProgramsCreated() {
	if m == nil {
		return
	}
	m.ProgramsCreated.Inc()
}

// RecordTransition records a status transition attempt and its outcome
// ("ok", "conflict", "denied").
func (m *Metrics) RecordTransition(to string, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to, outcome).Inc()
}

// IncrementTeamsAssigned records a successful team assignment.
func (m *Metrics) IncrementTeamsAssigned() {
	if m == nil {
		return
	}
	m.TeamsAssigned.Inc()
}

// IncrementInvitationsAccepted records a successful invitation acceptance.
func (m *Metrics) IncrementInvitationsAccepted() {
	if m == nil {
		return
	}
	m.InvitationsAccepted.Inc()
}

// ObserveCreate records the duration of a CreateProgram operation.
func (m *Metrics) ObserveCreate(start time.Time) {
	if m == nil {
		return
	}
	m.CreateDuration.Observe(time.Since(start).Seconds())
}

// ObserveTransition records the duration of a transition operation.
func (m *Metrics) ObserveTransition(start time.Time) {
	if m == nil {
		return
	}
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

// ObserveList records the duration of a list operation.
func (m *Metrics) ObserveList(start time.Time) {
	if m == nil {
		return
	}
	m.ListDuration.Observe(time.Since(start).Seconds())
}
