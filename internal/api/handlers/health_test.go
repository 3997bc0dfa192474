package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) HealthCheck(_ context.Context) error {
	return s.err
}

func healthRouter(db, redis, weatherService HealthChecker) *gin.Engine {
	handler := NewHealthHandler(db, redis, weatherService, "1.0.0")
	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/health/live", handler.LivenessCheck)
	return router
}

func getHealth(t *testing.T, router *gin.Engine) (int, HealthResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return recorder.Code, response
}

func TestHealthCheckAllHealthy(t *testing.T) {
	router := healthRouter(&stubChecker{}, &stubChecker{}, &stubChecker{})

	code, response := getHealth(t, router)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "healthy", response.Services["database"])
	assert.Equal(t, "healthy", response.Services["redis"])
	assert.Equal(t, "healthy", response.Services["weather"])
	assert.Equal(t, "1.0.0", response.Version)
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	router := healthRouter(&stubChecker{err: errors.New("dial refused")}, &stubChecker{}, &stubChecker{})

	code, response := getHealth(t, router)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", response.Status)
	assert.Contains(t, response.Services["database"], "unhealthy")
}

func TestHealthCheckWeatherDownIsAdvisory(t *testing.T) {
	// The engine falls back to regional irradiance without the weather
	// service, so its failure does not degrade the overall status.
	router := healthRouter(&stubChecker{}, &stubChecker{}, &stubChecker{err: errors.New("timeout")})

	code, response := getHealth(t, router)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	assert.Contains(t, response.Services["weather"], "unhealthy")
}

func TestHealthCheckUnconfiguredDependency(t *testing.T) {
	router := healthRouter(nil, &stubChecker{}, &stubChecker{})

	code, response := getHealth(t, router)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy: not configured", response.Services["database"])
}

func TestLivenessCheck(t *testing.T) {
	router := healthRouter(nil, nil, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "alive")
}
