package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/enerlytic/solarplan-go/internal/geo"
	"github.com/enerlytic/solarplan-go/internal/logging"
	"github.com/enerlytic/solarplan-go/internal/models"
	"github.com/enerlytic/solarplan-go/internal/pricing"
	"github.com/enerlytic/solarplan-go/internal/report"
	"github.com/enerlytic/solarplan-go/internal/solar"
	"github.com/enerlytic/solarplan-go/internal/weather"
)

const (
	defaultOrientation = "south"
	defaultWeatherMode = weather.ModeBlended

	recentAnalysesLimit = 20
)

// SupportedLocations is the city list served by the locations endpoint.
// Geocoding is open-ended; this list only seeds frontend pickers.
var SupportedLocations = []string{
	"Berlin", "Hamburg", "Munich", "Cologne", "Frankfurt",
	"Stuttgart", "Düsseldorf", "Dortmund", "Leipzig", "Bremen",
}

// Geocoder resolves a named German location to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (lat, lon float64, err error)
}

// IrradianceResolver produces the irradiance signal for coordinates under an
// analysis mode.
type IrradianceResolver interface {
	Analyze(ctx context.Context, lat, lon float64, mode string) (models.IrradianceSignal, error)
}

// RateSource supplies the electricity price snapshot in effect.
type RateSource interface {
	Current(ctx context.Context) pricing.Snapshot
}

// AnalysisStore persists completed analyses. It may be nil-backed in tests.
type AnalysisStore interface {
	Save(ctx context.Context, locationName string, result *models.FeasibilityResult) (*models.AnalysisRecord, error)
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

// AnalysisHandler serves the feasibility analysis endpoints.
type AnalysisHandler struct {
	pipeline *solar.Pipeline
	geocoder Geocoder
	weather  IrradianceResolver
	rates    RateSource
	store    AnalysisStore
	narrator *report.Narrator
	logger   *logging.StandardLogger
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(
	pipeline *solar.Pipeline,
	geocoder Geocoder,
	weatherService IrradianceResolver,
	rates RateSource,
	store AnalysisStore,
	logger *logging.StandardLogger,
) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		geocoder: geocoder,
		weather:  weatherService,
		rates:    rates,
		store:    store,
		narrator: report.NewNarrator(),
		logger:   logger,
	}
}

// Analyze runs the full feasibility pipeline for a request.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	lat, lon, err := h.resolveCoordinates(ctx, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	location := geo.NewLocationProfile(lat, lon)

	mode := req.WeatherAnalysis
	if mode == "" {
		mode = defaultWeatherMode
	}
	signal, err := h.weather.Analyze(ctx, lat, lon, mode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	orientation := req.Orientation
	if orientation == "" {
		orientation = defaultOrientation
	}

	result, err := h.pipeline.ComputeFeasibility(solar.PipelineInput{
		RoofAreaM2:               req.RoofAreaM2,
		Orientation:              orientation,
		Irradiance:               signal,
		Location:                 location,
		BudgetEUR:                req.BudgetEUR,
		HouseholdConsumptionKWh:  req.HouseholdConsumptionKWh,
		ElectricityRateEURPerKWh: h.rates.Current(ctx).PriceEURPerKWh,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	feasibilityReport, err := h.narrator.Render(req.Location, result)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := models.AnalyzeResponse{
		Location:          req.Location,
		Result:            *result,
		FeasibilityReport: feasibilityReport,
		Recommendations:   report.Recommendations(result),
		Timestamp:         time.Now().UTC(),
	}

	// Persistence is best-effort; a storage failure must not void a
	// completed analysis.
	if h.store != nil {
		if record, err := h.store.Save(ctx, req.Location, result); err != nil {
			h.logger.WithComponent("analysis").Warn("failed to persist analysis", "error", err.Error())
		} else {
			response.ID = record.ID
		}
	}

	h.logger.LogAnalysisCompleted(req.Location, result.System.CapacityKW, result.Financial.PaybackPeriodYears)
	c.JSON(http.StatusOK, response)
}

// ListAnalyses returns recently persisted analyses.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis storage not configured"})
		return
	}

	records, err := h.store.Recent(c.Request.Context(), recentAnalysesLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	c.JSON(http.StatusOK, models.AnalysesResponse{
		Analyses:  records,
		Count:     len(records),
		Timestamp: time.Now().UTC(),
	})
}

// GetLocations lists the seeded German cities.
func (h *AnalysisHandler) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": SupportedLocations})
}

// GetWeatherOptions describes the available analysis modes.
func (h *AnalysisHandler) GetWeatherOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		weather.ModeRecent: gin.H{
			"label":       "Recent Weather",
			"description": "Based on the latest observations - quick analysis",
			"timeframe":   "30 days",
		},
		weather.ModeLongTerm: gin.H{
			"label":       "Long-term Average",
			"description": "Based on 5+ years - comprehensive analysis",
			"timeframe":   "5+ years",
		},
		weather.ModeBlended: gin.H{
			"label":       "Smart Analysis",
			"description": "Combines recent + historical - most accurate",
			"timeframe":   "30 days + 5 years",
			"recommended": true,
		},
	})
}

func (h *AnalysisHandler) resolveCoordinates(ctx context.Context, req *models.AnalyzeRequest) (float64, float64, error) {
	if req.Latitude != nil && req.Longitude != nil {
		return *req.Latitude, *req.Longitude, nil
	}
	if req.Location == "" {
		return 0, 0, &solar.InvalidInputError{
			Field:  "location",
			Reason: "either location or latitude/longitude must be provided",
		}
	}
	return h.geocoder.Geocode(ctx, req.Location)
}

func (h *AnalysisHandler) respondError(c *gin.Context, err error) {
	var invalid *solar.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
	case errors.Is(err, geo.ErrLocationNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithComponent("analysis").Error("analysis request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
