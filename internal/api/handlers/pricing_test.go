package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enerlytic/solarplan-go/internal/logging"
	"github.com/enerlytic/solarplan-go/internal/models"
	"github.com/enerlytic/solarplan-go/internal/pricing"
)

type stubPriceService struct {
	snapshot  pricing.Snapshot
	manualErr error
	liveErr   error
}

func (s *stubPriceService) Current(_ context.Context) pricing.Snapshot {
	return s.snapshot
}

func (s *stubPriceService) UpdateManual(_ context.Context, price float64) (pricing.Snapshot, error) {
	if s.manualErr != nil {
		return pricing.Snapshot{}, s.manualErr
	}
	s.snapshot = pricing.Snapshot{PriceEURPerKWh: price, Source: pricing.SourceManual, UpdatedAt: time.Now()}
	return s.snapshot, nil
}

func (s *stubPriceService) UpdateLive(_ context.Context) (pricing.Snapshot, error) {
	if s.liveErr != nil {
		return pricing.Snapshot{}, s.liveErr
	}
	s.snapshot = pricing.Snapshot{PriceEURPerKWh: 0.35, Source: pricing.SourceLive, UpdatedAt: time.Now()}
	return s.snapshot, nil
}

func pricingRouter(service PriceService) *gin.Engine {
	handler := NewPricingHandler(service, logging.NewStandardLogger("error", "test"))
	router := gin.New()
	router.GET("/api/v1/electricity-price", handler.GetPrice)
	router.POST("/api/v1/electricity-price/update-live", handler.UpdateLive)
	router.POST("/api/v1/electricity-price/update-manual", handler.UpdateManual)
	return router
}

func TestGetPrice(t *testing.T) {
	service := &stubPriceService{snapshot: pricing.Snapshot{
		PriceEURPerKWh: 0.34,
		Source:         pricing.SourceDefault,
		UpdatedAt:      time.Now(),
	}}
	router := pricingRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/electricity-price", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response models.ElectricityPriceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 0.34, response.PriceEURPerKWh)
	assert.Equal(t, pricing.SourceDefault, response.Source)
}

func TestUpdateManualPrice(t *testing.T) {
	service := &stubPriceService{}
	router := pricingRouter(service)

	body := bytes.NewBufferString(`{"price_eur_per_kwh":0.42}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-manual", body)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, 0.42, response["new_price"])
}

func TestUpdateManualPriceValidation(t *testing.T) {
	router := pricingRouter(&stubPriceService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing price", `{}`},
		{"zero price", `{"price_eur_per_kwh":0}`},
		{"negative price", `{"price_eur_per_kwh":-0.1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-manual",
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestUpdateManualPriceImplausible(t *testing.T) {
	service := &stubPriceService{manualErr: &pricing.ErrImplausiblePrice{
		PriceEURPerKWh: 1.5, Min: 0.15, Max: 0.60,
	}}
	router := pricingRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-manual",
		bytes.NewBufferString(`{"price_eur_per_kwh":1.5}`))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateLivePrice(t *testing.T) {
	service := &stubPriceService{}
	router := pricingRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-live", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 0.35, response["new_price"])
}

func TestUpdateLivePriceUpstreamDown(t *testing.T) {
	service := &stubPriceService{liveErr: errors.New("connection refused")}
	router := pricingRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-live", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestUpdateLivePriceImplausible(t *testing.T) {
	service := &stubPriceService{liveErr: &pricing.ErrImplausiblePrice{
		PriceEURPerKWh: -0.02, Min: 0.15, Max: 0.60,
	}}
	router := pricingRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/electricity-price/update-live", nil))
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
