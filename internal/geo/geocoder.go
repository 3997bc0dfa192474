package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrLocationNotFound is returned when the geocoding service has no match
// for a location name.
var ErrLocationNotFound = fmt.Errorf("location not found")

// Geocoder resolves German city names and postal codes to coordinates via a
// Nominatim-compatible HTTP API.
type Geocoder struct {
	HTTPClient *http.Client
	baseURL    string
	userAgent  string
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewGeocoder creates a geocoder against the given Nominatim base URL.
func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Geocoder{
		HTTPClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  "solarplan-go",
	}
}

// Geocode resolves a location within Germany to a LocationProfile.
// Returns ErrLocationNotFound when the service has no match.
func (g *Geocoder) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	if strings.TrimSpace(location) == "" {
		return 0, 0, ErrLocationNotFound
	}

	query := url.Values{}
	query.Set("q", location+", Germany")
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrLocationNotFound
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in geocoding response: %w", err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in geocoding response: %w", err)
	}
	return lat, lon, nil
}
