package rest

import (
	"encoding/json"

	"github.com/philly/memo-board/internal/posts/domain"
)

// optionalString tells an omitted field apart from one sent as null or "".
// A null value is present with an empty Value.
type optionalString struct {
	Value   string
	Present bool
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o optionalString) toDomain() domain.OptionalString {
	return domain.OptionalString{Value: o.Value, Present: o.Present}
}

type createPostRequest struct {
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	ImageURL *string `json:"imageUrl"`
	Category *string `json:"category"`
}

type updatePostRequest struct {
	Title    optionalString `json:"title"`
	Body     optionalString `json:"body"`
	ImageURL optionalString `json:"imageUrl"`
	Category optionalString `json:"category"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
