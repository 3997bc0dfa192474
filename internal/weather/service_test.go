package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enerlytic/solarplan-go/internal/config"
	"github.com/enerlytic/solarplan-go/internal/solar"
)

type fakeCache struct {
	entries map[string]string
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.entries[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	c.entries[key] = value.(string)
	return nil
}

func newTestService(t *testing.T, handler http.Handler, cache Cache) *AnalysisService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.WeatherConfig{ServiceURL: server.URL, Timeout: 5})
	return NewAnalysisService(client, cache, time.Hour, nil)
}

func weatherHandler(recentDaily, historyAverage float64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/irradiance/recent", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily_irradiance_kwh_m2":` + formatFloat(recentDaily) + `,"temperature_celsius":18.5,"observation_date":"2025-06-10"}`))
	})
	mux.HandleFunc("/v1/irradiance/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"overall_average_kwh_m2":` + formatFloat(historyAverage) + `,"monthly_averages":{"1":1.2,"6":5.8},"years":5}`))
	})
	return mux
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestAnalyzeRecent(t *testing.T) {
	service := newTestService(t, weatherHandler(4.2, 3.9), nil)

	signal, err := service.Analyze(context.Background(), 52.52, 13.405, ModeRecent)
	require.NoError(t, err)

	assert.Equal(t, 4.2, signal.DailyIrradianceKWhM2)
	assert.Equal(t, SourceRecent, signal.SourceTag)
	assert.Len(t, signal.SeasonalFactors, 12)
}

func TestAnalyzeLongTerm(t *testing.T) {
	cache := newFakeCache()
	service := newTestService(t, weatherHandler(4.2, 3.9), cache)

	signal, err := service.Analyze(context.Background(), 52.52, 13.405, ModeLongTerm)
	require.NoError(t, err)

	assert.Equal(t, 3.9, signal.DailyIrradianceKWhM2)
	assert.Equal(t, SourceLongTerm, signal.SourceTag)
	assert.Equal(t, map[int]float64{1: 1.2, 6: 5.8}, signal.SeasonalFactors)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from cache.
	again, err := service.Analyze(context.Background(), 52.52, 13.405, ModeLongTerm)
	require.NoError(t, err)
	assert.Equal(t, signal, again)
	assert.Equal(t, 1, cache.sets)
}

func TestAnalyzeBlended(t *testing.T) {
	service := newTestService(t, weatherHandler(4.2, 3.9), nil)

	signal, err := service.Analyze(context.Background(), 52.52, 13.405, ModeBlended)
	require.NoError(t, err)

	assert.InDelta(t, 4.2*0.3+3.9*0.7, signal.DailyIrradianceKWhM2, 1e-9)
	assert.Equal(t, SourceBlended, signal.SourceTag)
	// Seasonal shape follows the multi-year record.
	assert.Equal(t, map[int]float64{1: 1.2, 6: 5.8}, signal.SeasonalFactors)
}

func TestAnalyzeUnknownMode(t *testing.T) {
	service := newTestService(t, weatherHandler(4.2, 3.9), nil)

	_, err := service.Analyze(context.Background(), 52.52, 13.405, "clairvoyant")

	var invalid *solar.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "weather_analysis", invalid.Field)
}

func TestAnalyzeFallsBackWhenUpstreamDown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		name string
		lat  float64
		want float64
	}{
		{"far north", 54.5, 3.2},
		{"north", 52.52, 3.5},
		{"central", 50.1, 3.8},
		{"south", 48.137, 4.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, handler, nil)

			signal, err := service.Analyze(context.Background(), tt.lat, 10.0, ModeRecent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, signal.DailyIrradianceKWhM2)
			assert.Equal(t, SourceRegionalFallback, signal.SourceTag)
		})
	}
}

func TestDefaultSeasonalPatternRegionalAdjustments(t *testing.T) {
	north := defaultSeasonalPattern(54.0, 10.0)
	south := defaultSeasonalPattern(48.1, 11.6)
	center := defaultSeasonalPattern(51.0, 9.7)

	assert.InDelta(t, 1.4*1.1, north[7], 1e-9)
	assert.InDelta(t, 0.3*0.9, north[12], 1e-9)
	assert.InDelta(t, 0.3*1.2, south[12], 1e-9)
	assert.Equal(t, 1.4, center[7])
	assert.Equal(t, 0.3, center[12])
}
