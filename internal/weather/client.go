package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/enerlytic/solarplan-go/internal/config"
)

// Client talks to the DWD-backed weather HTTP service that supplies
// irradiance observations and multi-year histories.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
}

// NewClient creates a weather client from configuration.
func NewClient(cfg *config.WeatherConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.ServiceURL, "/"),
	}
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthCheck checks whether the weather service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.get(ctx, "/health", nil, &struct{}{})
}

// RecentIrradiance fetches the latest daily irradiance observation near the
// coordinates.
func (c *Client) RecentIrradiance(ctx context.Context, lat, lon float64) (*RecentResponse, error) {
	query := coordQuery(lat, lon)
	var response RecentResponse
	if err := c.get(ctx, "/v1/irradiance/recent", query, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// HistoricalIrradiance fetches the multi-year irradiance average and monthly
// distribution near the coordinates.
func (c *Client) HistoricalIrradiance(ctx context.Context, lat, lon float64, years int) (*HistoryResponse, error) {
	query := coordQuery(lat, lon)
	query.Set("years", strconv.Itoa(years))
	var response HistoryResponse
	if err := c.get(ctx, "/v1/irradiance/history", query, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func coordQuery(lat, lon float64) url.Values {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("weather service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}
