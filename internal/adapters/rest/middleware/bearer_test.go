package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/philly/memo-board/internal/platform/apperror"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	tokens map[string]uuid.UUID
	seen   []string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	s.seen = append(s.seen, token)
	if token == "" {
		return nil, apperror.Unauthorized(apperror.BusinessCodeMissingToken, "No token provided")
	}
	id, ok := s.tokens[token]
	if !ok {
		return nil, apperror.Unauthorized(apperror.BusinessCodeInvalidToken, "Invalid token")
	}
	return &domain.User{ID: id, Username: "alice"}, nil
}

func TestBearerAuth(t *testing.T) {
	alice := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantToken  string
		wantMsg    string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantToken: "good"},
		{name: "scheme is case insensitive", header: "bearer good", wantStatus: http.StatusOK, wantToken: "good"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantMsg: "No token provided"},
		{name: "other scheme", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, wantMsg: "No token provided"},
		{name: "unknown token", header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantToken: "bad", wantMsg: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &stubAuthenticator{tokens: map[string]uuid.UUID{"good": alice}}
			auth := NewBearerAuth(users, logger.NewNop())

			var gotID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Middleware(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Len(t, users.seen, 1)
			assert.Equal(t, tt.wantToken, users.seen[0])

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, alice, gotID)
				return
			}

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "UNAUTHORIZED", body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestTrackIdentity(t *testing.T) {
	ctx, slot := TrackIdentity(context.Background())
	assert.Equal(t, uuid.Nil, slot.UserID())

	id := uuid.New()
	inner := SetUserID(ctx, id)

	got, ok := GetUserID(inner)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, id, slot.UserID())

	_, ok = GetUserID(ctx)
	assert.False(t, ok)
}
