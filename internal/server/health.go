package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sriramramnath/EducationOS/internal/store"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// readinessProbeTimeout bounds the database ping of a readiness check.
const readinessProbeTimeout = 2 * time.Second

// HealthChecker provides liveness and readiness endpoints. Readiness
// covers the database; liveness only confirms the process serves
// requests.
type HealthChecker struct {
	ready atomic.Bool
	store *store.Store
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(st *store.Store) *HealthChecker {
	h := &HealthChecker{store: st}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness state. The serve command calls this with
// false when shutdown begins so load balancers drain the instance.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HealthResponse is the JSON body of the probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler serves /healthz.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. It fails while shutting down or when
// the database does not answer a ping.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		ok := true

		if h.ready.Load() {
			checks["ready"] = healthStatusOK
		} else {
			checks["ready"] = healthStatusShuttingDown
			ok = false
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
		defer cancel()
		if err := h.store.HealthCheck(ctx); err != nil {
			checks["database"] = err.Error()
			ok = false
		} else {
			checks["database"] = healthStatusOK
		}

		status := http.StatusOK
		body := HealthResponse{Status: healthStatusOK, Checks: checks}
		if !ok {
			status = http.StatusServiceUnavailable
			body.Status = healthStatusNotReady
		}
		writeJSON(w, status, body)
	})
}
