// Package request provides middleware for request ID propagation. Every
// request carries a unique ID used to correlate log lines across layers;
// inbound X-Request-ID headers are honored so IDs survive proxy hops.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"auditflow/pkg/requestcontext"
)

// HeaderName is the HTTP header carrying the request ID.
const HeaderName = "X-Request-ID"

// Middleware assigns a request ID to the request context and echoes it back
// in the response headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderName, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
