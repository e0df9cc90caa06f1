package controllers

import (
	"context"
	"net/http"
	"time"

	"insuranceapi/pkg/logger"

	"github.com/gin-gonic/gin"
)

var healthCheck func(ctx context.Context) error

// SetHealthCheck sets the probe run by GET /api/health, usually a database ping.
func SetHealthCheck(fn func(ctx context.Context) error) {
	healthCheck = fn
}

// getHealth reports whether the service and its database are reachable
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health [get]
func getHealth(c *gin.Context) {
	if healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := healthCheck(ctx); err != nil {
			logger.Errorf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "down"})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}

// RegisterHealthRoutes registers the public health endpoint.
func RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", getHealth)
}
