package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobscout/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests.
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime),
		Checks:    map[string]string{"api": "ok"},
	})
}

// ReadinessHandler handles readiness probe requests.
func ReadinessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime),
		Checks:    map[string]string{"api": "ok"},
	})
}

// LivenessHandler handles liveness probe requests.
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime),
	})
}
