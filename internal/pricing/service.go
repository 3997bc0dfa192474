package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/enerlytic/solarplan-go/internal/config"
)

// Price sources recorded on a snapshot.
const (
	SourceDefault = "default"
	SourceManual  = "manual"
	SourceLive    = "live_market"
)

const snapshotKey = "pricing:snapshot"

// Snapshot is the electricity price in effect for feasibility analyses. A
// snapshot is read once at pipeline entry and threaded through, so a
// concurrent update never splits a single analysis across two prices.
type Snapshot struct {
	PriceEURPerKWh float64   `json:"price_eur_per_kwh"`
	Source         string    `json:"source"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store is the subset of the Redis client used for snapshot persistence.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// ErrImplausiblePrice reports a price outside the plausible household range.
type ErrImplausiblePrice struct {
	PriceEURPerKWh float64
	Min, Max       float64
}

func (e *ErrImplausiblePrice) Error() string {
	return fmt.Sprintf("price %.4f EUR/kWh outside plausible household range [%.2f, %.2f]",
		e.PriceEURPerKWh, e.Min, e.Max)
}

// Service resolves the household electricity rate used by the financial
// engine. It persists snapshots to Redis and falls back to the configured
// default rate when no snapshot exists.
type Service struct {
	cfg        config.PricingConfig
	store      Store
	httpClient *http.Client
	logger     *slog.Logger
}

// NewService creates the pricing service. store may be nil, in which case
// only the default rate is served and updates fail.
func NewService(cfg config.PricingConfig, store Store, logger *slog.Logger) *Service {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Current returns the price snapshot in effect. Missing or unreadable
// snapshots yield the configured default.
func (s *Service) Current(ctx context.Context) Snapshot {
	if s.store != nil {
		if cached, err := s.store.Get(ctx, snapshotKey); err == nil && cached != "" {
			var snapshot Snapshot
			if err := json.Unmarshal([]byte(cached), &snapshot); err == nil && snapshot.PriceEURPerKWh > 0 {
				return snapshot
			}
		}
	}
	return s.defaultSnapshot()
}

// UpdateManual sets the price by operator input.
func (s *Service) UpdateManual(ctx context.Context, priceEURPerKWh float64) (Snapshot, error) {
	if priceEURPerKWh < s.cfg.MinPlausibleEURKWh || priceEURPerKWh > s.cfg.MaxPlausibleEURKWh {
		return Snapshot{}, &ErrImplausiblePrice{
			PriceEURPerKWh: priceEURPerKWh,
			Min:            s.cfg.MinPlausibleEURKWh,
			Max:            s.cfg.MaxPlausibleEURKWh,
		}
	}

	snapshot := Snapshot{
		PriceEURPerKWh: priceEURPerKWh,
		Source:         SourceManual,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.persist(ctx, snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// liveResponse is the energy-charts day-ahead payload. Prices are wholesale
// EUR/MWh.
type liveResponse struct {
	Prices []float64 `json:"price"`
	Unit   string    `json:"unit"`
}

// UpdateLive fetches the current day-ahead wholesale price and derives a
// household rate from it. Implausible results leave the stored snapshot
// untouched.
func (s *Service) UpdateLive(ctx context.Context) (Snapshot, error) {
	endpoint := s.cfg.LiveAPIURL + "/price?bzn=DE-LU"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to create price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Snapshot{}, fmt.Errorf("price service returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload liveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode price response: %w", err)
	}
	if len(payload.Prices) == 0 {
		return Snapshot{}, fmt.Errorf("price service returned no prices")
	}

	householdRate := householdRateFromWholesale(payload.Prices, s.cfg.HouseholdMarkup)
	if householdRate < s.cfg.MinPlausibleEURKWh || householdRate > s.cfg.MaxPlausibleEURKWh {
		return Snapshot{}, &ErrImplausiblePrice{
			PriceEURPerKWh: householdRate,
			Min:            s.cfg.MinPlausibleEURKWh,
			Max:            s.cfg.MaxPlausibleEURKWh,
		}
	}

	snapshot := Snapshot{
		PriceEURPerKWh: householdRate,
		Source:         SourceLive,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.persist(ctx, snapshot); err != nil {
		return Snapshot{}, err
	}
	if s.logger != nil {
		s.logger.Info("updated electricity price from live market",
			"price_eur_per_kwh", snapshot.PriceEURPerKWh)
	}
	return snapshot, nil
}

func (s *Service) persist(ctx context.Context, snapshot Snapshot) error {
	if s.store == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode price snapshot: %w", err)
	}
	ttl := time.Duration(s.cfg.SnapshotTTLMinutes) * time.Minute
	if err := s.store.Set(ctx, snapshotKey, string(payload), ttl); err != nil {
		return fmt.Errorf("failed to store price snapshot: %w", err)
	}
	return nil
}

func (s *Service) defaultSnapshot() Snapshot {
	return Snapshot{
		PriceEURPerKWh: s.cfg.DefaultRateEURKWh,
		Source:         SourceDefault,
		UpdatedAt:      time.Now().UTC(),
	}
}

// householdRateFromWholesale averages the wholesale EUR/MWh series, applies
// the household markup covering grid fees, levies and VAT, and converts to
// EUR/kWh rounded to 4 decimals.
func householdRateFromWholesale(wholesaleEURPerMWh []float64, markup float64) float64 {
	sum := decimal.Zero
	for _, price := range wholesaleEURPerMWh {
		sum = sum.Add(decimal.NewFromFloat(price))
	}
	average := sum.Div(decimal.NewFromInt(int64(len(wholesaleEURPerMWh))))

	rate := average.
		Mul(decimal.NewFromFloat(markup)).
		Div(decimal.NewFromInt(1000)).
		Round(4)
	result, _ := rate.Float64()
	return result
}
