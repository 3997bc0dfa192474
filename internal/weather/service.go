package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/enerlytic/solarplan-go/internal/geo"
	"github.com/enerlytic/solarplan-go/internal/models"
	"github.com/enerlytic/solarplan-go/internal/solar"
)

// Analysis modes.
const (
	ModeRecent   = "recent"
	ModeLongTerm = "longterm"
	ModeBlended  = "blended"
)

// Source tags recorded on the produced signal.
const (
	SourceRecent           = "dwd_recent"
	SourceLongTerm         = "dwd_longterm"
	SourceBlended          = "blended"
	SourceRegionalFallback = "regional_fallback"
)

// Blending weights: recent conditions carry less weight than the multi-year
// record.
const (
	blendRecentWeight   = 0.3
	blendLongTermWeight = 0.7
)

const historyYears = 5

// Cache is the subset of the Redis client used for long-term analyses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// AnalysisService resolves an irradiance signal for coordinates under one of
// the three analysis modes. Upstream failures degrade to the documented
// regional fallback values, so callers always receive a usable signal.
type AnalysisService struct {
	client   *Client
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewAnalysisService creates the analysis service. cache may be nil, which
// disables caching of long-term analyses.
func NewAnalysisService(client *Client, cache Cache, cacheTTL time.Duration, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Modes lists the supported analysis modes.
func Modes() []string {
	return []string{ModeRecent, ModeLongTerm, ModeBlended}
}

// Analyze resolves the irradiance signal for the coordinates under the given
// mode. An unknown mode is an input-contract violation.
func (s *AnalysisService) Analyze(ctx context.Context, lat, lon float64, mode string) (models.IrradianceSignal, error) {
	switch mode {
	case ModeRecent:
		return s.recent(ctx, lat, lon), nil
	case ModeLongTerm:
		return s.longTerm(ctx, lat, lon), nil
	case ModeBlended:
		return s.blended(ctx, lat, lon), nil
	default:
		return models.IrradianceSignal{}, &solar.InvalidInputError{
			Field:  "weather_analysis",
			Reason: fmt.Sprintf("unknown analysis mode %q", mode),
		}
	}
}

func (s *AnalysisService) recent(ctx context.Context, lat, lon float64) models.IrradianceSignal {
	resp, err := s.client.RecentIrradiance(ctx, lat, lon)
	if err != nil || resp.DailyIrradianceKWhM2 <= 0 {
		s.logFallback(lat, lon, err)
		return regionalFallback(lat, lon)
	}
	return models.IrradianceSignal{
		DailyIrradianceKWhM2: resp.DailyIrradianceKWhM2,
		SeasonalFactors:      defaultSeasonalPattern(lat, lon),
		SourceTag:            SourceRecent,
	}
}

func (s *AnalysisService) longTerm(ctx context.Context, lat, lon float64) models.IrradianceSignal {
	cacheKey := fmt.Sprintf("weather:longterm:%.3f:%.3f", lat, lon)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var signal models.IrradianceSignal
			if err := json.Unmarshal([]byte(cached), &signal); err == nil {
				return signal
			}
		}
	}

	resp, err := s.client.HistoricalIrradiance(ctx, lat, lon, historyYears)
	if err != nil || resp.OverallAverageKWhM2 <= 0 {
		s.logFallback(lat, lon, err)
		return regionalFallback(lat, lon)
	}

	signal := models.IrradianceSignal{
		DailyIrradianceKWhM2: resp.OverallAverageKWhM2,
		SeasonalFactors:      monthlyFactors(resp.MonthlyAverages, lat, lon),
		SourceTag:            SourceLongTerm,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(signal); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil && s.logger != nil {
				s.logger.Warn("failed to cache long-term analysis", "error", err)
			}
		}
	}
	return signal
}

func (s *AnalysisService) blended(ctx context.Context, lat, lon float64) models.IrradianceSignal {
	recent := s.recent(ctx, lat, lon)
	longTerm := s.longTerm(ctx, lat, lon)

	return models.IrradianceSignal{
		DailyIrradianceKWhM2: recent.DailyIrradianceKWhM2*blendRecentWeight +
			longTerm.DailyIrradianceKWhM2*blendLongTermWeight,
		// The seasonal shape comes from the multi-year record.
		SeasonalFactors: longTerm.SeasonalFactors,
		SourceTag:       SourceBlended,
	}
}

func (s *AnalysisService) logFallback(lat, lon float64, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("weather service unavailable, using regional fallback",
		"lat", lat, "lon", lon, "error", err)
}

// monthlyFactors converts the service's string-keyed monthly averages to the
// signal's factor map; malformed payloads fall back to the default pattern.
func monthlyFactors(averages map[string]float64, lat, lon float64) map[int]float64 {
	if len(averages) == 0 {
		return defaultSeasonalPattern(lat, lon)
	}
	factors := make(map[int]float64, len(averages))
	for key, value := range averages {
		month := 0
		if _, err := fmt.Sscanf(key, "%d", &month); err != nil || month < 1 || month > 12 || value <= 0 {
			return defaultSeasonalPattern(lat, lon)
		}
		factors[month] = value
	}
	return factors
}

// regionalFallback supplies latitude-banded German average conditions when
// the upstream source has no data.
func regionalFallback(lat, lon float64) models.IrradianceSignal {
	return models.IrradianceSignal{
		DailyIrradianceKWhM2: regionalIrradiance(lat),
		SeasonalFactors:      defaultSeasonalPattern(lat, lon),
		SourceTag:            SourceRegionalFallback,
	}
}

// regionalIrradiance returns the regional average daily irradiance
// (kWh/m²/day) by latitude band.
func regionalIrradiance(lat float64) float64 {
	switch {
	case lat > 54.0:
		return 3.2
	case lat > 51.5:
		return 3.5
	case lat > 49.0:
		return 3.8
	default:
		return 4.1
	}
}

// defaultSeasonalPattern is the German seasonal irradiance shape with
// regional adjustments: northern summers are more pronounced, southern
// winters milder.
func defaultSeasonalPattern(lat, lon float64) map[int]float64 {
	pattern := map[int]float64{
		1: 0.4, 2: 0.6, 3: 0.8, 4: 1.1, 5: 1.3, 6: 1.4,
		7: 1.4, 8: 1.2, 9: 1.0, 10: 0.7, 11: 0.5, 12: 0.3,
	}

	switch geo.RegionFor(lat, lon) {
	case geo.RegionNorth:
		for _, m := range []int{6, 7} {
			pattern[m] *= 1.1
		}
		for _, m := range []int{12, 1, 2} {
			pattern[m] *= 0.9
		}
	case geo.RegionSouth:
		for _, m := range []int{12, 1, 2} {
			pattern[m] *= 1.2
		}
	}
	return pattern
}
