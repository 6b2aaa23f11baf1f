package testutil

import (
	"io"
	"log/slog"
	"net/http"

	id "auditflow/pkg/domain"
	"auditflow/pkg/requestcontext"
)

// DiscardLogger returns a logger that drops everything; use in tests that do
// not assert on log output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithIdentity attaches an authenticated identity to the request context,
// simulating what the auth middleware does for real requests.
func WithIdentity(req *http.Request, identity id.Identity) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), identity))
}

// WithRole attaches a freshly generated identity with the given role and
// email, scoped to the given tenant.
func WithRole(req *http.Request, tenantID id.TenantID, role id.Role, email string) *http.Request {
	return WithIdentity(req, id.Identity{
		UserID:   id.NewUserID(),
		TenantID: tenantID,
		Role:     role,
		Email:    email,
	})
}

// WithRequestID attaches a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
