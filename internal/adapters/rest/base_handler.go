package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/philly/memo-board/internal/adapters/rest/middleware"
	"github.com/philly/memo-board/internal/platform/apperror"
	"github.com/philly/memo-board/internal/platform/logger"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

var errInvalidBody = apperror.Validation(apperror.BusinessCodeInvalidFormat, "Invalid request body")

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response without business code or context
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	h.writeError(w, r, middleware.ErrorResponse{
		Error:   code,
		Message: message,
		Detail:  message,
	}, statusCode)
}

// HandleError maps err to an error response. Internal failures were already
// logged with their cause by the service; only the status is noted here.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	resp, status := middleware.NewErrorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", status,
			"error", err,
		)
	}
	h.writeError(w, r, resp, status)
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// ParseUUID binds a path parameter into a UUID. On failure it writes a 400
// naming the parameter and returns false.
func (h *BaseHandler) ParseUUID(w http.ResponseWriter, r *http.Request, value string, paramName string) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", paramName, value, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		h.HandleError(w, r, apperror.Validation(apperror.BusinessCodeInvalidFormat, "Invalid "+paramName))
		return uuid.Nil, false
	}
	return id, true
}

// DecodeJSON reads a JSON object body into dst. Anything else, including an
// empty body or a bare array, writes a 400 and returns false.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes), dst); err != nil {
		h.logger.Debug(r.Context(), "rejected request body", "path", r.URL.Path, "error", err)
		h.HandleError(w, r, errInvalidBody.WithDetails(err.Error()))
		return false
	}
	return true
}

// GetUserIDFromContext returns the identity set by the bearer middleware.
// It panics when called on a route the middleware does not guard.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("rest: user ID missing from context; route is not behind bearer auth")
	}
	return userID
}

func (h *BaseHandler) writeError(w http.ResponseWriter, r *http.Request, resp middleware.ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", resp.Error,
			"status_code", statusCode,
		)
	}
}

func decodeObject(body io.Reader, dst any) error {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if raw = bytes.TrimSpace(raw); len(raw) == 0 || raw[0] != '{' {
		return errors.New("expected a JSON object")
	}
	return json.Unmarshal(raw, dst)
}
