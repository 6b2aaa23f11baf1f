package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/middleware/metadata"
	request "auditflow/pkg/platform/middleware/request"
	"auditflow/pkg/requestcontext"
)

// IdentityResolver validates a bearer token and resolves the caller identity.
type IdentityResolver interface {
	ResolveIdentity(tokenString string) (id.Identity, error)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved identity to the request context for handlers and services.
func RequireAuth(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
					"client_ip", metadata.GetClientIP(ctx),
					"user_agent", metadata.GetUserAgent(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			ident, err := resolver.ResolveIdentity(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
					"client_ip", metadata.GetClientIP(ctx),
					"user_agent", metadata.GetUserAgent(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
