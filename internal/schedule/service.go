package schedule

import (
	"context"
	"errors"
	"log/slog"

	"auditflow/internal/directory"
	"auditflow/internal/program/models"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/sentinel"
	"auditflow/pkg/requestcontext"
)

// Store persists one schedule document per audit.
type Store interface {
	Save(ctx context.Context, schedule *Schedule) error
	Find(ctx context.Context, auditID id.AuditID) (*Schedule, error)
}

// ProgramResolver resolves audits and their parent programs for
// authorization.
type ProgramResolver interface {
	FindAuditByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	FindByID(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
}

// Directory resolves the auditee-side responsibility candidates.
type Directory interface {
	DepartmentHeadsByTenant(ctx context.Context, tenantID id.TenantID) ([]directory.DepartmentHead, error)
}

// Service owns audit schedules: only the audit's team leader or a Management
// Representative of the tenant may read or write them.
type Service struct {
	store     Store
	programs  ProgramResolver
	directory Directory
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs a schedule Service.
func New(store Store, programs ProgramResolver, dir Directory, opts ...Option) *Service {
	s := &Service{
		store:     store,
		programs:  programs,
		directory: dir,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveSchedule replaces the audit's schedule with the given entries.
func (s *Service) SaveSchedule(ctx context.Context, auditID id.AuditID, entries []Entry) (*Schedule, error) {
	caller, _, err := s.authorize(ctx, auditID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, err
		}
	}

	schedule := &Schedule{
		AuditID:   auditID,
		Entries:   entries,
		UpdatedBy: caller.UserID,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, schedule); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save schedule")
	}

	s.logger.InfoContext(ctx, "audit schedule saved",
		"request_id", requestcontext.RequestID(ctx),
		"audit_id", auditID,
		"entries", len(entries),
	)
	return schedule, nil
}

// GetSchedule returns the audit's schedule; an audit with no saved schedule
// reads as an empty one.
func (s *Service) GetSchedule(ctx context.Context, auditID id.AuditID) (*Schedule, error) {
	if _, _, err := s.authorize(ctx, auditID); err != nil {
		return nil, err
	}
	schedule, err := s.store.Find(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &Schedule{AuditID: auditID, Entries: []Entry{}}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load schedule")
	}
	return schedule, nil
}

// Timetable derives the rendered timetable. When entries is nil the saved
// schedule is used; passing entries previews unsaved edits.
func (s *Service) Timetable(ctx context.Context, auditID id.AuditID, entries []Entry) ([]TimetableDay, error) {
	caller, audit, err := s.authorize(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		saved, err := s.store.Find(ctx, auditID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load schedule")
		}
		if saved != nil {
			entries = saved.Entries
		}
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, err
		}
	}

	heads, err := s.directory.DepartmentHeadsByTenant(ctx, caller.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve department heads")
	}
	headNames := make([]string, len(heads))
	for i, h := range heads {
		headNames[i] = h.Name
	}
	return DeriveTimetable(entries, audit.Team.All(), headNames), nil
}

// authorize loads the audit and its parent program, confirms tenant scope,
// and checks that the caller is the tenant's MR or the audit's team leader.
func (s *Service) authorize(ctx context.Context, auditID id.AuditID) (id.Identity, *models.Audit, error) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		return id.Identity{}, nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	audit, err := s.programs.FindAuditByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.Identity{}, nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return id.Identity{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit")
	}
	program, err := s.programs.FindByID(ctx, audit.ProgramID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.Identity{}, nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return id.Identity{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit program")
	}
	if program.TenantID != caller.TenantID {
		return id.Identity{}, nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
	}

	switch {
	case caller.Role == id.RoleManagementRep:
	case caller.Role == id.RoleAuditor && audit.Team != nil && audit.Team.Leader == caller.Email:
	default:
		return id.Identity{}, nil, dErrors.New(dErrors.CodeForbidden, "only the team leader or a management representative may manage schedules")
	}
	return caller, audit, nil
}
