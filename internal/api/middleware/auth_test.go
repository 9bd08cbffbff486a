package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, auth.JWTService) {
	t.Helper()
	jwtService := auth.NewTestJWTService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)
	return NewAuthMiddleware(jwtService), jwtService
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid token passes user id to the handler", func(t *testing.T) {
		t.Parallel()
		m, jwtService := newTestMiddleware(t)

		token, err := jwtService.GenerateToken(context.Background(), 42)
		require.NoError(t, err)

		var gotUserID int64
		var found bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, found = GetUserID(r)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		m.Authenticate(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, found)
		assert.Equal(t, int64(42), gotUserID)
	})

	t.Run("missing header responds 401", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestMiddleware(t)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rec := httptest.NewRecorder()
		m.Authenticate(failIfCalled(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header responds 401", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestMiddleware(t)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		m.Authenticate(failIfCalled(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token responds 401", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestMiddleware(t)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		m.Authenticate(failIfCalled(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		t.Parallel()
		m, jwtService := newTestMiddleware(t)

		token, err := jwtService.GenerateRefreshToken(context.Background(), 42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		m.Authenticate(failIfCalled(t)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func failIfCalled(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not have been called")
	})
}
