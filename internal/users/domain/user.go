package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
)

// User is immutable after registration.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the only part of a user that is ever shown to other users.
type PublicProfile struct {
	ID       uuid.UUID
	Username string
}

func NewUser(username, passwordHash string, at time.Time) (*User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}

	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    at,
		UpdatedAt:    at,
	}, nil
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username}
}

// NormalizeUsername trims surrounding whitespace; usernames are otherwise
// compared exactly.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	return username, nil
}
