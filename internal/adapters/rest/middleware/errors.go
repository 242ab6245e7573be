package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/philly/memo-board/internal/platform/apperror"
)

// Error codes for failures raised outside the application services
const (
	ErrorCodeNotFound            = string(apperror.CodeNotFound)
	ErrorCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrorCodeInternalServerError = string(apperror.CodeInternalError)
)

// ErrorResponse is the body of every error reply.
// Message is what the browser client reads; Detail carries the same text
// for clients that still expect the older field.
type ErrorResponse struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Detail       string `json:"detail"`
	Context      any    `json:"context,omitempty"`
}

// NewErrorResponse maps an error to its reply body and status.
// Anything that is not an AppError becomes a generic 500.
func NewErrorResponse(err error) (ErrorResponse, int) {
	appErr, ok := apperror.As(err)
	if !ok {
		return ErrorResponse{
			Error:        ErrorCodeInternalServerError,
			BusinessCode: string(apperror.BusinessCodeGeneral),
			Message:      "Server error",
			Detail:       "Server error",
		}, http.StatusInternalServerError
	}

	return ErrorResponse{
		Error:        string(appErr.Code),
		BusinessCode: string(appErr.BusinessCode),
		Message:      appErr.Message,
		Detail:       appErr.Message,
		Context:      appErr.Details,
	}, appErr.HTTPStatus
}

// WriteJSONError writes a JSON error response with consistent format
// This matches the format used by BaseHandler in the REST layer
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	writeErrorResponse(w, ErrorResponse{Error: code, Message: message, Detail: message}, status)
}

// WriteAppError writes err using its AppError status and codes
func WriteAppError(w http.ResponseWriter, err error) {
	resp, status := NewErrorResponse(err)
	writeErrorResponse(w, resp, status)
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Ignore encoding errors here as we're already in error handling
	_ = json.NewEncoder(w).Encode(resp)
}
