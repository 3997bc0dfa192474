package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthChecker is anything that can report its own liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler aggregates dependency health into one endpoint.
type HealthHandler struct {
	db      HealthChecker
	redis   HealthChecker
	weather HealthChecker
	version string
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

// NewHealthHandler creates the health handler. Nil checkers are reported as
// unconfigured.
func NewHealthHandler(db, redis, weatherService HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		weather: weatherService,
		version: version,
	}
}

// HealthCheck reports service status. The weather service is advisory: the
// engine degrades to regional fallbacks without it, so only database and
// Redis failures flip the overall status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	services := make(map[string]string)

	check := func(name string, checker HealthChecker) bool {
		if checker == nil {
			services[name] = "unhealthy: not configured"
			return false
		}
		if err := checker.HealthCheck(ctx); err != nil {
			services[name] = "unhealthy: " + err.Error()
			return false
		}
		services[name] = "healthy"
		return true
	}

	dbOK := check("database", h.db)
	redisOK := check("redis", h.redis)
	check("weather", h.weather)

	status := "healthy"
	statusCode := http.StatusOK
	if !dbOK || !redisOK {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  services,
		Version:   h.version,
		Uptime:    time.Since(startTime).String(),
	})
}

// LivenessCheck confirms the process is responsive.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
