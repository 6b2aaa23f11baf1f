// Package httpapi assembles the HTTP surface: middleware chain, operational
// endpoints, and the authenticated API routes. Handlers stay thin and delegate
// to domain services; this package only wires them together.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	directory "auditflow/internal/directory"
	programhandler "auditflow/internal/program/handler"
	"auditflow/internal/schedule"
	"auditflow/pkg/platform/middleware/auth"
	"auditflow/pkg/platform/middleware/metadata"
	request "auditflow/pkg/platform/middleware/request"
	"auditflow/pkg/platform/middleware/requesttime"
)

// HealthCheck reports the health of one dependency. Implementations should be
// cheap; the endpoint is polled by orchestrators.
type HealthCheck func(r *http.Request) error

// Deps carries everything the router needs. All fields except the optional
// health checks are required.
type Deps struct {
	Logger    *slog.Logger
	Tokens    auth.IdentityResolver
	Programs  *programhandler.Handler
	Schedules *schedule.Handler
	Directory *directory.Handler

	HealthChecks map[string]HealthCheck
}

// NewRouter wires all endpoints. Operational endpoints (health, metrics) are
// unauthenticated; everything under /api requires a valid bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", healthHandler(d.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Tokens, d.Logger))
		d.Programs.Register(r)
		d.Schedules.Register(r)
		d.Directory.Register(r)
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checks)+1)
		report["status"] = "ok"

		for name, check := range checks {
			if err := check(r); err != nil {
				status = http.StatusServiceUnavailable
				report["status"] = "degraded"
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
