package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/philly/memo-board/internal/platform/apperror"
	"github.com/philly/memo-board/internal/platform/eventbus"
	"github.com/philly/memo-board/internal/platform/events"
	"github.com/philly/memo-board/internal/platform/logger"
	"github.com/philly/memo-board/internal/users/domain"
	"github.com/philly/memo-board/internal/users/ports"
)

// Error definitions for service operations
var (
	ErrMissingFields      = apperror.Validation(apperror.BusinessCodeMissingFields, "Missing fields")
	ErrUsernameTaken      = apperror.Validation(apperror.BusinessCodeUsernameTaken, "Username taken")
	ErrInvalidCredentials = apperror.Validation(apperror.BusinessCodeInvalidCredentials, "Invalid credentials")
	ErrNoToken            = apperror.Unauthorized(apperror.BusinessCodeMissingToken, "No token provided")
	ErrInvalidToken       = apperror.Unauthorized(apperror.BusinessCodeInvalidToken, "Invalid token")
	ErrInvalidPayload     = apperror.Unauthorized(apperror.BusinessCodeInvalidToken, "Invalid token payload")
	ErrUnknownUser        = apperror.Unauthorized(apperror.BusinessCodeUserNotFound, "User not found")
)

// AuthResult is what register and login hand back to the caller.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService registers accounts, checks credentials and resolves bearer
// tokens to the acting identity.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	eventBus *eventbus.Bus
	logger   logger.Logger
	now      func() time.Time
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		eventBus: eventBus,
		logger:   logger,
		now:      utcNow,
	}
}

// Register creates an account and signs a token for it.
func (s *UserService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "failed to check username availability", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "failed to hash password", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}

	user, err := domain.NewUser(username, hash, s.now())
	if err != nil {
		return nil, ErrMissingFields
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name
		if errors.Is(err, ports.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error(ctx, "failed to register user", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.UserRegisteredTopic,
		Payload: events.UserRegisteredEvent{
			UserID:     user.ID,
			Username:   user.Username,
			OccurredAt: user.CreatedAt,
		},
	})

	s.logger.Info(ctx, "user registered", "userID", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error(ctx, "failed to find user", "error", err)
		return nil, apperror.Internal(err, "Server error")
	}
	s.logger.Debug(ctx, "login attempt", "username", username)

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate turns a raw bearer token into the acting user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	userID, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidTokenPayload) {
			return nil, ErrInvalidPayload
		}
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		s.logger.Error(ctx, "failed to load token owner", "error", err, "userID", userID)
		return nil, apperror.Internal(err, "Server error")
	}
	return user, nil
}

func (s *UserService) issue(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error(ctx, "failed to sign token", "error", err, "userID", user.ID)
		return "", apperror.Internal(err, "Server error")
	}
	return token, nil
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
