package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the database answers
type HealthChecker interface {
	Check(ctx context.Context) database.HealthReport
}

// HealthHandler serves GET /health
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check answers 200 when the database responds and 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	report := h.checker.Check(c.Request.Context())

	payload := dto.HealthResponse{
		Status:    "ok",
		Database:  "connected",
		LatencyMs: report.Latency.Milliseconds(),
		Connections: dto.ConnectionsStatus{
			Open:  report.Pool.Open,
			InUse: report.Pool.InUse,
		},
	}

	if !report.Healthy {
		payload.Status = "unavailable"
		payload.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    payload,
			Message: "Service unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, dto.Success("Service is healthy", payload))
}
