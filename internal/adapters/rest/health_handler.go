package rest

import (
	"context"
	"net/http"
	"time"
)

// Health states reported by the probes
const (
	Healthy   = "healthy"
	Unhealthy = "unhealthy"
	Up        = "up"
	Down      = "down"
)

// PingFunc checks that the storage backend answers
type PingFunc func(ctx context.Context) error

// HealthStatus is the body of the liveness and readiness probes
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type rootStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type HealthHandler struct {
	*BaseHandler
	version string
	ping    PingFunc // For readiness check
}

func NewHealthHandler(base *BaseHandler, version string, ping PingFunc) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		ping:        ping,
	}
}

// GetRoot answers the plain "is the server up" check used by the web client
func (h *HealthHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, rootStatus{OK: true, Message: "memo-board server running"}, http.StatusOK)
}

// GetLiveness implements the liveness probe endpoint
// This is a lightweight check with no external dependencies
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	response := HealthStatus{
		Status:    Healthy,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint
// This checks the storage backend
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := HealthStatus{
		Status:    Healthy,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Checks:    map[string]string{"storage": Up},
	}
	httpStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			h.logger.Warn(ctx, "readiness check failed", "error", err)
			response.Status = Unhealthy
			response.Checks["storage"] = Down
			httpStatus = http.StatusServiceUnavailable
		}
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}
