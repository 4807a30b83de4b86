package api

import (
	"context"
	"net/http"
	"time"
)

type HealthHandler struct {
	storePing func(context.Context) error
	backend   string
	env       string
	version   string
}

// NewHealthHandler builds liveness/readiness endpoints. storePing checks
// whichever record-store backend the process runs against.
func NewHealthHandler(storePing func(context.Context) error, backend, env, version string) *HealthHandler {
	return &HealthHandler{
		storePing: storePing,
		backend:   backend,
		env:       env,
		version:   version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	if h.storePing != nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, 1*time.Second)
		err := h.storePing(pingCtx)
		pingCancel()
		if err != nil {
			deps[h.backend] = "down"
			status = "error"
		} else {
			deps[h.backend] = "ok"
		}
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}
