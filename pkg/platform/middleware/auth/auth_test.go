package auth_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditflow/internal/jwttoken"
	id "auditflow/pkg/domain"
	"auditflow/pkg/platform/middleware/auth"
	"auditflow/pkg/platform/middleware/metadata"
	"auditflow/pkg/requestcontext"
	"auditflow/pkg/testutil"
)

func newChain(t *testing.T) (*jwttoken.JWTService, http.Handler, *id.Identity) {
	t.Helper()

	svc := jwttoken.NewJWTService("test-key", "auditflow", "auditflow-api")
	var seen id.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Identity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return svc, auth.RequireAuth(svc, testutil.DiscardLogger())(inner), &seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	svc, handler, seen := newChain(t)

	caller := id.Identity{
		UserID:     id.NewUserID(),
		TenantID:   id.NewTenantID(),
		TenantName: "Acme Corp",
		Role:       id.RoleAuditor,
		Email:      "aud@acme.test",
	}
	token, err := svc.GenerateAccessToken(caller, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-programs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, caller, *seen)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, handler, _ := newChain(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-programs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t,
		`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`,
		rec.Body.String())
}

func TestRequireAuth_BadToken(t *testing.T) {
	_, handler, _ := newChain(t)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-programs", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t,
		`{"error":"unauthorized","error_description":"Invalid or expired token"}`,
		rec.Body.String())
}

func TestRequireAuth_RejectionLogsClientMetadata(t *testing.T) {
	svc := jwttoken.NewJWTService("test-key", "auditflow", "auditflow-api")
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := metadata.ClientMetadata(auth.RequireAuth(svc, logger)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/audit-programs", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "auditflow-cli/1.2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, logs.String(), `"client_ip":"203.0.113.7"`)
	assert.Contains(t, logs.String(), `"user_agent":"auditflow-cli/1.2"`)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	svc, handler, _ := newChain(t)

	token, err := svc.GenerateAccessToken(id.Identity{
		UserID:   id.NewUserID(),
		TenantID: id.NewTenantID(),
		Role:     id.RoleAdmin,
	}, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/audit-programs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
