// Package http holds the process-wide HTTP plumbing: health probes,
// request logging, panic recovery and Prometheus middleware. Endpoint
// handlers live in the news and image subpackages.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"catchup-news/internal/handler/http/respond"
)

// TargetCounter reports how many feed targets the catalog resolves.
// *news.Service satisfies it.
type TargetCounter interface {
	TargetCount(ctx context.Context) (int, error)
}

// HealthResponse represents the JSON response for health check endpoints.
// Status is "healthy" or "unhealthy"; Timestamp is RFC 3339 in UTC.
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp string                 `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version" example:"1.0.0"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// HealthHandler reports whether the source catalog can be loaded and how
// many feed targets it yields.
type HealthHandler struct {
	Catalog TargetCounter
	Version string
}

// ServeHTTP returns 200 when every check passes and 503 otherwise.
//
// @Summary      Health check
// @Description  Reports catalog availability, the number of feed targets and the running version.
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"catalog": h.checkCatalog(ctx)}

	status, statusCode := "healthy", http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" {
			status, statusCode = "unhealthy", http.StatusServiceUnavailable
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkCatalog(ctx context.Context) CheckStatus {
	if h.Catalog == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	count, err := h.Catalog.TargetCount(ctx)
	if err != nil {
		return CheckStatus{Status: "unhealthy", Message: respond.SanitizeError(err)}
	}
	return CheckStatus{
		Status:  "healthy",
		Details: map[string]any{"target_count": count},
	}
}

// ReadyHandler answers readiness probes: ready once the catalog loads.
type ReadyHandler struct {
	Catalog TargetCounter
}

// ServeHTTP returns 200 "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Catalog == nil {
		http.Error(w, "catalog not configured", http.StatusServiceUnavailable)
		return
	}
	if _, err := h.Catalog.TargetCount(ctx); err != nil {
		http.Error(w, "catalog not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
