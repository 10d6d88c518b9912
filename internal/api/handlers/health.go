package handlers

import (
	"context"
	"net/http"
	"time"

	"freeswitch-admin-console/internal/client"
	apperrors "freeswitch-admin-console/internal/errors"

	"github.com/gin-gonic/gin"
)

// Version of the console reported by the health endpoints
const Version = "1.0.0"

// PathAPIRoot is the root route of the remote API, the only one it serves
// without a session
const PathAPIRoot = "/"

// HealthHandler handles health check endpoints
type HealthHandler struct {
	api client.Requester
}

// NewHealthHandler creates a health handler probing api
func NewHealthHandler(api client.Requester) *HealthHandler {
	return &HealthHandler{api: api}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// reachable reports whether the remote API answers at all. Any HTTP status
// counts; only a transport failure means it is down.
func (h *HealthHandler) reachable(ctx context.Context) error {
	err := h.api.Do(ctx, http.MethodGet, PathAPIRoot, nil, nil)
	if apperrors.IsNetwork(err) {
		return err
	}
	return nil
}

// Health handles GET /health. The console is unhealthy while the remote
// API does not answer.
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Services:  make(map[string]string),
	}

	if err := h.reachable(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Services["api"] = "error: " + err.Error()
	} else {
		response.Services["api"] = "healthy"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ready := true
	services := make(map[string]string)

	if err := h.reachable(c.Request.Context()); err != nil {
		ready = false
		services["api"] = "not ready: " + err.Error()
	} else {
		services["api"] = "ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, gin.H{
		"ready":     ready,
		"timestamp": time.Now(),
		"services":  services,
	})
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	// if we can respond, we're alive
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
