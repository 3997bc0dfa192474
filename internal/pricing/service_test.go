package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enerlytic/solarplan-go/internal/config"
)

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *redisStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func testConfig() config.PricingConfig {
	return config.PricingConfig{
		Timeout:            5,
		DefaultRateEURKWh:  0.34,
		SnapshotTTLMinutes: 60,
		HouseholdMarkup:    3.5,
		MinPlausibleEURKWh: 0.15,
		MaxPlausibleEURKWh: 0.60,
	}
}

func newTestStore(t *testing.T) Store {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &redisStore{client: client}
}

func TestCurrentDefaultsWithoutSnapshot(t *testing.T) {
	service := NewService(testConfig(), newTestStore(t), nil)

	snapshot := service.Current(context.Background())
	assert.Equal(t, 0.34, snapshot.PriceEURPerKWh)
	assert.Equal(t, SourceDefault, snapshot.Source)
}

func TestUpdateManual(t *testing.T) {
	service := NewService(testConfig(), newTestStore(t), nil)

	snapshot, err := service.UpdateManual(context.Background(), 0.42)
	require.NoError(t, err)
	assert.Equal(t, 0.42, snapshot.PriceEURPerKWh)
	assert.Equal(t, SourceManual, snapshot.Source)

	// Subsequent reads serve the stored snapshot.
	current := service.Current(context.Background())
	assert.Equal(t, 0.42, current.PriceEURPerKWh)
	assert.Equal(t, SourceManual, current.Source)
}

func TestUpdateManualImplausible(t *testing.T) {
	service := NewService(testConfig(), newTestStore(t), nil)

	tests := []struct {
		name  string
		price float64
	}{
		{"below household floor", 0.05},
		{"above household ceiling", 1.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateManual(context.Background(), tt.price)

			var implausible *ErrImplausiblePrice
			require.ErrorAs(t, err, &implausible)
			assert.Equal(t, tt.price, implausible.PriceEURPerKWh)
		})
	}
}

func TestUpdateLive(t *testing.T) {
	// Wholesale average 100 EUR/MWh, markup 3.5 -> 0.35 EUR/kWh household.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price", r.URL.Path)
		assert.Equal(t, "DE-LU", r.URL.Query().Get("bzn"))
		_, _ = w.Write([]byte(`{"price":[90.0,100.0,110.0],"unit":"EUR/MWh"}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.LiveAPIURL = server.URL
	service := NewService(cfg, newTestStore(t), nil)

	snapshot, err := service.UpdateLive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.35, snapshot.PriceEURPerKWh)
	assert.Equal(t, SourceLive, snapshot.Source)

	current := service.Current(context.Background())
	assert.Equal(t, 0.35, current.PriceEURPerKWh)
}

func TestUpdateLiveImplausibleKeepsSnapshot(t *testing.T) {
	// Negative day-ahead prices happen; the derived household rate is
	// rejected and the stored snapshot stays.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"price":[-50.0,-40.0],"unit":"EUR/MWh"}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.LiveAPIURL = server.URL
	service := NewService(cfg, newTestStore(t), nil)

	_, err := service.UpdateManual(context.Background(), 0.40)
	require.NoError(t, err)

	_, err = service.UpdateLive(context.Background())
	var implausible *ErrImplausiblePrice
	require.ErrorAs(t, err, &implausible)

	current := service.Current(context.Background())
	assert.Equal(t, 0.40, current.PriceEURPerKWh)
	assert.Equal(t, SourceManual, current.Source)
}

func TestUpdateLiveUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.LiveAPIURL = server.URL
	service := NewService(cfg, newTestStore(t), nil)

	_, err := service.UpdateLive(context.Background())
	assert.ErrorContains(t, err, "status 502")
}

func TestHouseholdRateFromWholesale(t *testing.T) {
	tests := []struct {
		name      string
		wholesale []float64
		markup    float64
		want      float64
	}{
		{"single price", []float64{80.0}, 3.5, 0.28},
		{"averaged series", []float64{90.0, 100.0, 110.0}, 3.5, 0.35},
		{"rounded to four decimals", []float64{95.37}, 3.5, 0.3338},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, householdRateFromWholesale(tt.wholesale, tt.markup))
		})
	}
}
