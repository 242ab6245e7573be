package rest

import (
	"net/http"

	"github.com/philly/memo-board/internal/users/application"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	*BaseHandler
	service *application.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base *BaseHandler, service *application.UserService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register creates an account and returns it with a fresh token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toAuthResponse(result), http.StatusOK)
}

// Login checks credentials and returns a fresh token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toAuthResponse(result), http.StatusOK)
}

func toAuthResponse(result *application.AuthResult) authResponse {
	return authResponse{
		User: userResponse{
			ID:       result.User.ID.String(),
			Username: result.User.Username,
		},
		Token: result.Token,
	}
}
