package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("q"), "Germany")

		switch r.URL.Query().Get("q") {
		case "Berlin, Germany":
			_, _ = w.Write([]byte(`[{"lat":"52.52","lon":"13.405"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	geocoder := NewGeocoder(server.URL, 5*time.Second)

	lat, lon, err := geocoder.Geocode(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, 52.52, lat)
	assert.Equal(t, 13.405, lon)

	_, _, err = geocoder.Geocode(context.Background(), "Nowhereville")
	assert.True(t, errors.Is(err, ErrLocationNotFound))

	_, _, err = geocoder.Geocode(context.Background(), "   ")
	assert.True(t, errors.Is(err, ErrLocationNotFound))
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	geocoder := NewGeocoder(server.URL, 5*time.Second)

	_, _, err := geocoder.Geocode(context.Background(), "Berlin")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrLocationNotFound))
}
