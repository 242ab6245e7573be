package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/users/domain"
)

// Authenticator resolves a raw bearer token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerAuth requires an "Authorization: Bearer <token>" header and puts the
// acting identity into the request context. Any other scheme counts as no
// token at all.
type BearerAuth struct {
	users  Authenticator
	logger logger.Logger
}

// NewBearerAuth creates the bearer authentication middleware
func NewBearerAuth(users Authenticator, logger logger.Logger) *BearerAuth {
	return &BearerAuth{
		users:  users,
		logger: logger,
	}
}

// Middleware rejects unauthenticated requests with 401
func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := a.users.Authenticate(ctx, bearerToken(r.Header.Get("Authorization")))
		if err != nil {
			a.logger.Debug(ctx, "authentication rejected",
				"path", r.URL.Path,
				"error", err,
			)
			WriteAppError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(ctx, user.ID)))
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
