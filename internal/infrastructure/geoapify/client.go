package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pricewise/backend/internal/domain"
)

// Client proxies Geoapify geocoding so the API key stays server-side.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// autocompleteLimit caps suggestion rows per lookup.
const autocompleteLimit = 8

// NewClient creates a Geoapify client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// geoResult mirrors Geoapify's JSON result rows.
type geoResult struct {
	Formatted string  `json:"formatted"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type geoResponse struct {
	Results []geoResult `json:"results"`
}

// Autocomplete resolves free text to address suggestions, restricted to
// Indian addresses (the supported delivery footprint).
func (c *Client) Autocomplete(ctx context.Context, text string) ([]domain.GeoSuggestion, error) {
	params := url.Values{}
	params.Add("text", text)
	params.Add("format", "json")
	params.Add("limit", fmt.Sprintf("%d", autocompleteLimit))
	params.Add("filter", "countrycode:in")
	params.Add("apiKey", c.apiKey)

	results, err := c.get(ctx, fmt.Sprintf("%s/v1/geocode/autocomplete?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.GeoSuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, toSuggestion(r))
	}
	return suggestions, nil
}

// ReverseGeocode resolves coordinates to the closest address, or nil
// when Geoapify has nothing for the point.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeoSuggestion, error) {
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", lat))
	params.Add("lon", fmt.Sprintf("%f", lon))
	params.Add("format", "json")
	params.Add("apiKey", c.apiKey)

	results, err := c.get(ctx, fmt.Sprintf("%s/v1/geocode/reverse?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	suggestion := toSuggestion(results[0])
	return &suggestion, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]geoResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeocodingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGeocodingFailure, resp.StatusCode)
	}

	var decoded geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return decoded.Results, nil
}

func toSuggestion(r geoResult) domain.GeoSuggestion {
	return domain.GeoSuggestion{
		Formatted: r.Formatted,
		City:      r.City,
		State:     r.State,
		Country:   r.Country,
		Lat:       r.Lat,
		Lon:       r.Lon,
	}
}
