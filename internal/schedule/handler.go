package schedule

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "auditflow/pkg/domain"
	dErrors "auditflow/pkg/domain-errors"
	"auditflow/pkg/platform/httputil"
	"auditflow/pkg/requestcontext"
)

// Handler handles schedule and timetable endpoints.
type Handler struct {
	schedules *Service
	logger    *slog.Logger
}

// NewHandler creates a schedule Handler.
func NewHandler(schedules *Service, logger *slog.Logger) *Handler {
	return &Handler{schedules: schedules, logger: logger}
}

// Register mounts the schedule routes. Authentication middleware is applied
// by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/audits/{auditID}/schedule", h.handleGetSchedule)
	r.Put("/api/audits/{auditID}/schedule", h.handleSaveSchedule)
	r.Post("/api/audits/{auditID}/timetable", h.handleTimetable)
}

// SaveScheduleRequest is the PUT /api/audits/{id}/schedule payload.
type SaveScheduleRequest struct {
	Entries []Entry `json:"entries"`
}

func (r *SaveScheduleRequest) Validate() error {
	if r.Entries == nil {
		return dErrors.New(dErrors.CodeValidation, "entries is required")
	}
	return nil
}

// TimetableRequest is the POST /api/audits/{id}/timetable payload. A nil
// entries list derives from the saved schedule.
type TimetableRequest struct {
	Entries []Entry `json:"entries"`
}

func (r *TimetableRequest) Validate() error { return nil }

func (h *Handler) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	auditID := id.AuditID(chi.URLParam(r, "auditID"))

	schedule, err := h.schedules.GetSchedule(ctx, auditID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "get schedule")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schedule)
}

func (h *Handler) handleSaveSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	auditID := id.AuditID(chi.URLParam(r, "auditID"))

	req, ok := httputil.DecodeAndPrepare[SaveScheduleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	schedule, err := h.schedules.SaveSchedule(ctx, auditID, req.Entries)
	if err != nil {
		h.writeServiceError(ctx, w, err, "save schedule")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schedule)
}

func (h *Handler) handleTimetable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	auditID := id.AuditID(chi.URLParam(r, "auditID"))

	req, ok := httputil.DecodeAndPrepare[TimetableRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	days, err := h.schedules.Timetable(ctx, auditID, req.Entries)
	if err != nil {
		h.writeServiceError(ctx, w, err, "derive timetable")
		return
	}
	if days == nil {
		days = []TimetableDay{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]TimetableDay{"days": days})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, op string) {
	requestID := requestcontext.RequestID(ctx)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "schedule operation failed",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "schedule operation denied",
			"request_id", requestID,
			"operation", op,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
