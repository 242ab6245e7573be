package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/philly/memo-board/internal/users/ports"
)

// userIDClaim is the private claim carrying the user ID. The subject carries
// the same value for standard tooling.
const userIDClaim = "id"

var ErrEmptySecret = errors.New("token secret must not be empty")

// TokenConfig carries the settings needed to sign and verify tokens
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	key    []byte
	expiry time.Duration
}

func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{
		key:    []byte(cfg.Secret),
		expiry: cfg.Expiry,
	}, nil
}

// Issue signs a token for userID that expires after the configured duration.
func (i *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(i.expiry)).
		Claim(userIDClaim, userID.String()).
		Build()
	if err != nil {
		return "", fmt.Errorf("TokenIssuer.Issue: build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), i.key))
	if err != nil {
		return "", fmt.Errorf("TokenIssuer.Issue: sign token: %w", err)
	}
	return string(signed), nil
}

// Validate checks signature and expiry and returns the user ID claim.
func (i *TokenIssuer) Validate(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), i.key),
		jwt.WithValidate(true),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ports.ErrInvalidToken, err)
	}

	var claim string
	if err := token.Get(userIDClaim, &claim); err != nil || claim == "" {
		return uuid.Nil, ports.ErrInvalidTokenPayload
	}
	userID, err := uuid.Parse(claim)
	if err != nil {
		return uuid.Nil, ports.ErrInvalidTokenPayload
	}
	return userID, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
