package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
)

func TestRecoveryMiddleware(t *testing.T) {
	handler := api.RequestID()(api.Recovery()(
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			panic("test panic")
		})))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var capturedID string
	handler := api.RequestID()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = api.CorrelationID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, capturedID)
	assert.Equal(t, capturedID, rec.Header().Get("X-Correlation-Id"))
}

func TestAuthMiddlewareDevMode(t *testing.T) {
	var actor auth.Actor
	handler := api.Auth("")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ = auth.ActorFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-User-Id", "u-1")
	req.Header.Set("X-Tenant-Id", "t-1")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.Actor{UserID: "u-1", TenantID: "t-1"}, actor)
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	secret := "test-secret"
	token, err := auth.IssueToken([]byte(secret), auth.Actor{UserID: "u-1", TenantID: "t-1"}, time.Hour)
	require.NoError(t, err)

	var actor auth.Actor
	handler := api.Auth(secret)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ = auth.ActorFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, "t-1", actor.TenantID)
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	handler := api.Auth("test-secret")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	// No Authorization header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	token, err := auth.IssueToken([]byte("other-secret"), auth.Actor{UserID: "u-1", TenantID: "t-1"}, time.Hour)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJSONContentTypeMiddleware(t *testing.T) {
	handler := api.JSONContentType()(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
