package geoapify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewise/backend/internal/domain"
)

func TestAutocomplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/autocomplete", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "koramangala", query.Get("text"))
		assert.Equal(t, "countrycode:in", query.Get("filter"))
		assert.Equal(t, "test-key", query.Get("apiKey"))
		assert.Equal(t, "8", query.Get("limit"))

		json.NewEncoder(w).Encode(geoResponse{Results: []geoResult{
			{
				Formatted: "Koramangala, Bengaluru, Karnataka, India",
				City:      "Bengaluru",
				State:     "Karnataka",
				Country:   "India",
				Lat:       12.9352,
				Lon:       77.6245,
			},
		}})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	suggestions, err := client.Autocomplete(context.Background(), "koramangala")

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Bengaluru", suggestions[0].City)
	assert.InDelta(t, 12.9352, suggestions[0].Lat, 0.0001)
}

func TestAutocompleteEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geoResponse{})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	suggestions, err := client.Autocomplete(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.NotNil(t, suggestions, "empty result is an empty slice, not nil")
}

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/reverse", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))

		json.NewEncoder(w).Encode(geoResponse{Results: []geoResult{
			{Formatted: "MG Road, Pune, Maharashtra, India", City: "Pune"},
		}})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	suggestion, err := client.ReverseGeocode(context.Background(), 18.5204, 73.8567)

	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Pune", suggestion.City)
}

func TestReverseGeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geoResponse{})
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	suggestion, err := client.ReverseGeocode(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestGeocodingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.Autocomplete(context.Background(), "pune")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeocodingFailure)
}
