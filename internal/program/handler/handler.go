// Package handler exposes the program lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"auditflow/internal/program/models"
	"auditflow/internal/program/service"
	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/httputil"
	"auditflow/pkg/requestcontext"
)

// Service is the program lifecycle surface the handler depends on.
type Service interface {
	CreateProgram(ctx context.Context, in service.CreateProgramInput) (*models.AuditProgram, error)
	ListPrograms(ctx context.Context) ([]models.AuditProgram, error)
	ListProgramsForAdmin(ctx context.Context) ([]models.AuditProgram, error)
	GetProgram(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	AddAudit(ctx context.Context, programID id.ProgramID, in models.AuditInput) (*models.Audit, error)
	Submit(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	Approve(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	Reject(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	Complete(ctx context.Context, programID id.ProgramID) (*models.AuditProgram, error)
	AssignTeam(ctx context.Context, auditID id.AuditID, team *models.Team) (*models.Audit, error)
	AcceptInvitation(ctx context.Context, auditID id.AuditID) (*models.AcceptedAudit, bool, error)
}

// Handler handles audit program endpoints.
type Handler struct {
	programs Service
	logger   *slog.Logger
}

// New creates a program Handler.
func New(programs Service, logger *slog.Logger) *Handler {
	return &Handler{programs: programs, logger: logger}
}

// Register mounts the program routes. Authentication middleware is applied
// by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/audit-programs", func(r chi.Router) {
		r.Post("/", h.handleCreateProgram)
		r.Get("/", h.handleListPrograms)
		r.Get("/admin", h.handleListForAdmin)
		r.Get("/{programID}", h.handleGetProgram)
		r.Post("/{programID}/audits", h.handleAddAudit)
		r.Put("/{programID}/submit", h.transitionHandler(h.programs.Submit))
		r.Put("/{programID}/approve", h.transitionHandler(h.programs.Approve))
		r.Put("/{programID}/reject", h.transitionHandler(h.programs.Reject))
		r.Put("/{programID}/complete", h.transitionHandler(h.programs.Complete))
	})
	// Registered flat so the schedule routes can share the /api/audits prefix.
	r.Put("/api/audits/{auditID}", h.handleAssignTeam)
	r.Post("/api/audits/{auditID}/accept", h.handleAcceptInvitation)
}

func (h *Handler) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	caller := requestcontext.Identity(ctx)
	tenantID := caller.TenantID
	if req.TenantID != "" {
		parsed, err := id.ParseTenantID(req.TenantID)
		if err != nil {
			h.writeServiceError(ctx, w, err, "create program")
			return
		}
		tenantID = parsed
	}
	tenantName := caller.TenantName
	if req.TenantName != "" {
		tenantName = req.TenantName
	}
	program, err := h.programs.CreateProgram(ctx, service.CreateProgramInput{
		Name:       req.Name,
		Objective:  req.Objective,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TenantID:   tenantID,
		TenantName: tenantName,
		Audits:     req.auditInputs(),
	})
	if err != nil {
		h.writeServiceError(ctx, w, err, "create program")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, program)
}

func (h *Handler) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	programs, err := h.programs.ListPrograms(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "list programs")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(programs))
}

func (h *Handler) handleListForAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	programs, err := h.programs.ListProgramsForAdmin(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "list programs for admin")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(programs))
}

func (h *Handler) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	programID := id.ProgramID(chi.URLParam(r, "programID"))
	program, err := h.programs.GetProgram(ctx, programID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "get program")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}

func (h *Handler) handleAddAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	programID := id.ProgramID(chi.URLParam(r, "programID"))

	req, ok := httputil.DecodeAndPrepare[AddAuditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	audit, err := h.programs.AddAudit(ctx, programID, req.normalize())
	if err != nil {
		h.writeServiceError(ctx, w, err, "add audit")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, audit)
}

// transitionHandler adapts the submit/approve/reject/complete service calls,
// which share a shape, into handlers.
func (h *Handler) transitionHandler(op func(context.Context, id.ProgramID) (*models.AuditProgram, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		programID := id.ProgramID(chi.URLParam(r, "programID"))
		program, err := op(ctx, programID)
		if err != nil {
			h.writeServiceError(ctx, w, err, "transition program")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, program)
	}
}

func (h *Handler) handleAssignTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	auditID := id.AuditID(chi.URLParam(r, "auditID"))

	req, ok := httputil.DecodeAndPrepare[AssignTeamRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	audit, err := h.programs.AssignTeam(ctx, auditID, req.Team)
	if err != nil {
		h.writeServiceError(ctx, w, err, "assign team")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, audit)
}

func (h *Handler) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auditID := id.AuditID(chi.URLParam(r, "auditID"))

	acceptance, created, err := h.programs.AcceptInvitation(ctx, auditID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "accept invitation")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, toAcceptanceResponse(acceptance))
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, op string) {
	requestID := requestcontext.RequestID(ctx)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "program operation failed",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "program operation denied",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
