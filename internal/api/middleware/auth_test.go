package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-api/internal/service/auth"
)

// stubJWTService validates tokens against a fixed map.
type stubJWTService struct {
	tokens map[string]uuid.UUID
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	userID, ok := s.tokens[tokenString]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: userID}, nil
}

func authTestHandler(t *testing.T, wantUserID uuid.UUID, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		userID, ok := GetUserID(r)
		assert.True(t, ok)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid token reaches the handler with user ID", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		m := NewAuthMiddleware(&stubJWTService{tokens: map[string]uuid.UUID{"good-token": userID}})

		var called bool
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		m.Authenticate(authTestHandler(t, userID, &called)).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		m := NewAuthMiddleware(&stubJWTService{})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()

		m := NewAuthMiddleware(&stubJWTService{})

		for _, header := range []string{"good-token", "Basic dXNlcjpwYXNz", "Bearer"} {
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			m.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		m := NewAuthMiddleware(&stubJWTService{err: auth.ErrExpiredToken})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		w := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		m := NewAuthMiddleware(&stubJWTService{tokens: map[string]uuid.UUID{}})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer forged-token")
		w := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})
}
