// Package service implements the audit program lifecycle engine: creation,
// tenant/role-scoped retrieval, and the guarded status transitions
// Draft → Pending Approval → Active → Completed (rejection returns a pending
// program to Draft).
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"auditflow/internal/directory"
	"auditflow/internal/events"
	"auditflow/internal/program/metrics"
	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
	"auditflow/pkg/requestcontext"
)

// ProgramStore is the durable home of programs and their nested audits.
// Status changes go through UpdateStatus, a conditional update that only
// commits when the current status still equals from; it returns
// sentinel.ErrStaleStatus otherwise so concurrent transitions cannot race
// past the state machine.
type ProgramStore interface {
	Create(ctx context.Context, program *models.AuditProgram) error
	FindByID(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]models.AuditProgram, error)
	ListByTenantAndStatus(ctx context.Context, tenantID id.TenantID, statuses []models.Status) ([]models.AuditProgram, error)
	UpdateStatus(ctx context.Context, programID id.ProgramID, from, to models.Status, at time.Time) error
	AddAudit(ctx context.Context, audit *models.Audit) error
	FindAuditByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	UpdateTeam(ctx context.Context, auditID id.AuditID, team *models.Team) error
}

// AcceptanceStore records accepted team invitations, unique per
// (audit, auditor).
type AcceptanceStore interface {
	Create(ctx context.Context, acceptance models.AcceptedAudit) error
	Find(ctx context.Context, auditID id.AuditID, auditorID id.UserID) (*models.AcceptedAudit, error)
}

// Directory resolves the auditors of a tenant for server-side team
// validation.
type Directory interface {
	AuditorsByTenant(ctx context.Context, tenantID id.TenantID) ([]directory.Auditor, error)
}

// EventPublisher emits lifecycle events. Publish failures never unwind a
// committed transition.
type EventPublisher interface {
	ProgramSubmitted(ctx context.Context, event events.ProgramSubmitted) error
}

// Service orchestrates the program lifecycle.
type Service struct {
	programs    ProgramStore
	acceptances AcceptanceStore
	directory   Directory
	events      EventPublisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(programs ProgramStore, acceptances AcceptanceStore, dir Directory, opts ...Option) *Service {
	s := &Service{
		programs:    programs,
		acceptances: acceptances,
		directory:   dir,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProgramInput is the validated input for CreateProgram. Field
// normalization (trimming, plural objective mapping) happens at the HTTP
// boundary before this struct is built.
type CreateProgramInput struct {
	Name       string
	Objective  string
	StartDate  time.Time
	EndDate    time.Time
	TenantID   id.TenantID
	TenantName string
	Audits     []models.AuditInput
}

// CreateProgram creates a Draft program with its nested audits, atomically.
// Management Representative only; the caller may only create within their
// own tenant.
func (s *Service) CreateProgram(ctx context.Context, in CreateProgramInput) (*models.AuditProgram, error) {
	start := time.Now()
	caller, err := requireRole(ctx, id.RoleManagementRep)
	if err != nil {
		return nil, err
	}
	if caller.TenantID != in.TenantID {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot create a program for another tenant")
	}

	now := requestcontext.Now(ctx)
	program, err := models.NewAuditProgram(in.Name, in.Objective, in.StartDate, in.EndDate, in.TenantID, in.TenantName, caller.UserID, in.Audits, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.programs.Create(ctx, program); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create audit program")
	}

	s.logger.InfoContext(ctx, "audit program created",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
		"tenant_id", program.TenantID,
		"audits", len(program.Audits),
	)
	s.metrics.IncrementProgramsCreated()
	s.metrics.ObserveCreate(start)
	return program, nil
}

// ListPrograms returns the caller's tenant programs. Auditors only see
// programs where some audit team includes them.
func (s *Service) ListPrograms(ctx context.Context) ([]models.AuditProgram, error) {
	start := time.Now()
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	programs, err := s.programs.ListByTenant(ctx, caller.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit programs")
	}

	if caller.Role == id.RoleAuditor {
		filtered := programs[:0]
		for _, p := range programs {
			if p.HasMember(caller.Email) {
				filtered = append(filtered, p)
			}
		}
		programs = filtered
	}
	s.metrics.ObserveList(start)
	return programs, nil
}

// adminVisibleStatuses are the statuses an admin review queue shows; Draft
// programs stay invisible until submitted.
var adminVisibleStatuses = []models.Status{
	models.StatusPending,
	models.StatusScheduled,
	models.StatusActive,
	models.StatusCompleted,
}

// ListProgramsForAdmin returns the admin review view of the caller's tenant.
func (s *Service) ListProgramsForAdmin(ctx context.Context) ([]models.AuditProgram, error) {
	start := time.Now()
	caller, err := requireRole(ctx, id.RoleAdmin)
	if err != nil {
		return nil, err
	}
	programs, err := s.programs.ListByTenantAndStatus(ctx, caller.TenantID, adminVisibleStatuses)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit programs")
	}
	s.metrics.ObserveList(start)
	return programs, nil
}

// GetProgram fetches one program. Non-MR callers are confined to their own
// tenant; cross-tenant ids read as not found to avoid tenant enumeration.
func (s *Service) GetProgram(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit program not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit program")
	}
	if caller.Role != id.RoleManagementRep && program.TenantID != caller.TenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "audit program not found")
	}
	return program, nil
}

// AddAudit appends an audit to an existing program of the caller's tenant.
func (s *Service) AddAudit(ctx context.Context, programID id.ProgramID, in models.AuditInput) (*models.Audit, error) {
	caller, err := requireRole(ctx, id.RoleManagementRep)
	if err != nil {
		return nil, err
	}
	program, err := s.loadTenantProgram(ctx, programID, caller.TenantID)
	if err != nil {
		return nil, err
	}

	audit, err := models.NewAudit(program.ID, in, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.programs.AddAudit(ctx, audit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create audit")
	}

	s.logger.InfoContext(ctx, "audit added to program",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
		"audit_id", audit.ID,
	)
	return audit, nil
}

// Submit moves a Draft program to Pending Approval and emits the submission
// event. Re-submitting an already pending program is a no-op, preserved from
// the upstream contract.
func (s *Service) Submit(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	start := time.Now()
	caller, err := requireRole(ctx, id.RoleManagementRep)
	if err != nil {
		return nil, err
	}
	program, err := s.loadTenantProgram(ctx, programID, caller.TenantID)
	if err != nil {
		return nil, err
	}
	if err := program.CanSubmit(); err != nil {
		s.metrics.RecordTransition(string(models.StatusPending), "denied")
		return nil, err
	}
	if program.AlreadyPending() {
		return program, nil
	}

	now := requestcontext.Now(ctx)
	if err := s.programs.UpdateStatus(ctx, program.ID, models.StatusDraft, models.StatusPending, now); err != nil {
		return nil, s.translateTransitionErr(ctx, err, program.ID, models.StatusPending)
	}
	program.Status = models.StatusPending
	program.UpdatedAt = now

	s.publishSubmitted(ctx, program, caller.UserID, now)

	s.logger.InfoContext(ctx, "audit program submitted for approval",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
		"tenant_id", program.TenantID,
	)
	s.metrics.RecordTransition(string(models.StatusPending), "ok")
	s.metrics.ObserveTransition(start)
	return program, nil
}

// Approve activates a pending program. Admin only, same tenant.
func (s *Service) Approve(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	return s.adminTransition(ctx, programID, models.StatusPending, models.StatusActive)
}

// Reject returns a pending program to Draft. Admin only, same tenant.
func (s *Service) Reject(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	return s.adminTransition(ctx, programID, models.StatusPending, models.StatusDraft)
}

// Complete closes out an active program. Admin only, same tenant.
func (s *Service) Complete(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error) {
	return s.adminTransition(ctx, programID, models.StatusActive, models.StatusCompleted)
}

func (s *Service) adminTransition(ctx context.Context, programID id.ProgramID, from, to models.Status) (*models.AuditProgram, error) {
	start := time.Now()
	caller, err := requireRole(ctx, id.RoleAdmin)
	if err != nil {
		return nil, err
	}
	program, err := s.loadTenantProgram(ctx, programID, caller.TenantID)
	if err != nil {
		return nil, err
	}
	if program.Status != from {
		s.metrics.RecordTransition(string(to), "denied")
		return nil, dErrors.Newf(dErrors.CodeInvalidTransition, "cannot move a program from %q to %q", program.Status, to)
	}

	now := requestcontext.Now(ctx)
	if err := s.programs.UpdateStatus(ctx, program.ID, from, to, now); err != nil {
		return nil, s.translateTransitionErr(ctx, err, program.ID, to)
	}
	program.Status = to
	program.UpdatedAt = now

	s.logger.InfoContext(ctx, "audit program transitioned",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
		"from", from,
		"to", to,
	)
	s.metrics.RecordTransition(string(to), "ok")
	s.metrics.ObserveTransition(start)
	return program, nil
}

// translateTransitionErr maps store failures of a conditional status update
// onto the domain taxonomy. A stale status means another actor committed a
// conflicting transition first.
func (s *Service) translateTransitionErr(ctx context.Context, err error, programID id.ProgramID, to models.Status) error {
	switch {
	case errors.Is(err, sentinel.ErrStaleStatus):
		s.metrics.RecordTransition(string(to), "conflict")
		s.logger.WarnContext(ctx, "concurrent status transition lost",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", programID,
			"to", to,
		)
		return dErrors.Newf(dErrors.CodeInvalidTransition, "program status changed concurrently")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "audit program not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update program status")
	}
}

// publishSubmitted is fire-and-forget: notification delivery must never
// unwind the committed transition.
func (s *Service) publishSubmitted(ctx context.Context, program *models.AuditProgram, submittedBy id.UserID, now time.Time) {
	if s.events == nil {
		return
	}
	event := events.ProgramSubmitted{
		ProgramID:   program.ID,
		ProgramName: program.Name,
		TenantID:    program.TenantID,
		TenantName:  program.TenantName,
		SubmittedBy: submittedBy,
		SubmittedAt: now,
	}
	if err := s.events.ProgramSubmitted(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish submission event",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", program.ID,
			"error", err,
		)
	}
}

// loadTenantProgram fetches a program and confirms tenant ownership.
// Cross-tenant access reads as not found.
func (s *Service) loadTenantProgram(ctx context.Context, programID id.ProgramID, tenantID id.TenantID) (*models.AuditProgram, error) {
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit program not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit program")
	}
	if program.TenantID != tenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "audit program not found")
	}
	return program, nil
}

// requireRole resolves the caller and checks the required role.
func requireRole(ctx context.Context, role id.Role) (id.Identity, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return id.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if caller.Role != role {
		return id.Identity{}, dErrors.Newf(dErrors.CodeForbidden, "%s access required", role)
	}
	return caller, nil
}
