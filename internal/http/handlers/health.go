package handlers

import (
	"net/http"
	"time"

	"hometracker/internal/http/respond"
)

// HealthHandler serves the public liveness endpoints.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// Root answers the API banner.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "Shared Home Expense Tracker API",
		"status":  "active",
	})
}

// Health reports liveness and uptime.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
