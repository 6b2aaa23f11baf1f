package directory

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

// Handler exposes the tenant personnel lookups used by team pickers.
type Handler struct {
	directory *Service
	logger    *slog.Logger
}

// NewHandler creates a directory Handler.
func NewHandler(directory *Service, logger *slog.Logger) *Handler {
	return &Handler{directory: directory, logger: logger}
}

// Register mounts the directory routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/auditors", h.handleListAuditors)
	r.Get("/api/department-heads", h.handleListDepartmentHeads)
}

func (h *Handler) handleListAuditors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireMR(ctx, w)
	if !ok {
		return
	}
	auditors, err := h.directory.AuditorsByTenant(ctx, caller.TenantID)
	if err != nil {
		h.writeInternal(ctx, w, err, "list auditors")
		return
	}
	if auditors == nil {
		auditors = []Auditor{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]Auditor{"auditors": auditors})
}

func (h *Handler) handleListDepartmentHeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.requireMR(ctx, w)
	if !ok {
		return
	}
	heads, err := h.directory.DepartmentHeadsByTenant(ctx, caller.TenantID)
	if err != nil {
		h.writeInternal(ctx, w, err, "list department heads")
		return
	}
	if heads == nil {
		heads = []DepartmentHead{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]DepartmentHead{"departmentHeads": heads})
}

func (h *Handler) requireMR(ctx context.Context, w http.ResponseWriter) (id.Identity, bool) {
	caller := requestcontext.Identity(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.Identity{}, false
	}
	if caller.Role != id.RoleManagementRep {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "MANAGEMENT_REP access required"))
		return id.Identity{}, false
	}
	return caller, true
}

func (h *Handler) writeInternal(ctx context.Context, w http.ResponseWriter, err error, op string) {
	h.logger.ErrorContext(ctx, "directory lookup failed",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err,
	)
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup failed"))
}
