package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pricewise/backend/internal/domain"
)

// Client talks to the external scraping/aggregation backend over its
// JSON contract: POST /api/search for pre-matched cross-platform records,
// POST /api/search/{platform} for raw single-platform listings.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

const maxRetries = 3

// NewClient creates an aggregator backend client. perMinute caps the
// request rate against the upstream; scrapes are slow and the backend
// serializes browser sessions, so the default is deliberately low.
func NewClient(baseURL string, timeout time.Duration, perMinute int) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 5),
	}
}

// SetDebug toggles verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// searchPayload is the request body both search endpoints accept.
type searchPayload struct {
	Query     string            `json:"query"`
	Location  domain.Location   `json:"location"`
	Platforms []domain.Platform `json:"platforms,omitempty"`
}

// searchResponse is the pre-matched response envelope.
type searchResponse struct {
	Products []domain.MatchedProduct `json:"products"`
}

// platformResponse is the raw single-platform response envelope.
type platformResponse struct {
	Products []domain.PlatformProduct `json:"products"`
}

// SearchAll searches every requested platform and returns the backend's
// pre-matched comparison records.
func (c *Client) SearchAll(ctx context.Context, query string, location domain.Location, platforms []domain.Platform) ([]domain.MatchedProduct, error) {
	body, err := c.post(ctx, c.baseURL+"/api/search", searchPayload{
		Query:     query,
		Location:  location,
		Platforms: platforms,
	})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.debug {
		log.Printf("[aggregator] %d matched products for %q", len(resp.Products), query)
	}
	return resp.Products, nil
}

// SearchPlatform searches a single platform and returns raw, ungrouped
// listings.
func (c *Client) SearchPlatform(ctx context.Context, platform domain.Platform, query string, location domain.Location) ([]domain.PlatformProduct, error) {
	url := fmt.Sprintf("%s/api/search/%s", c.baseURL, platform)
	body, err := c.post(ctx, url, searchPayload{Query: query, Location: location})
	if err != nil {
		return nil, err
	}

	var resp platformResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The backend omits the platform field on some scrapers; stamp it so
	// grouping never sees an unlabeled listing.
	for i := range resp.Products {
		if resp.Products[i].Platform == "" {
			resp.Products[i].Platform = platform
		}
	}

	if c.debug {
		log.Printf("[aggregator] %d raw products from %s for %q", len(resp.Products), platform, query)
	}
	return resp.Products, nil
}

// post executes a JSON POST with rate limiting and retries transient
// failures with exponential backoff. Server-side errors are wrapped in
// ErrAggregatorAPIFailure; the caller decides whether that degrades to
// zero results.
func (c *Client) post(ctx context.Context, url string, payload searchPayload) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retryable, err := c.doPost(ctx, url, encoded)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, lastErr
		}

		if c.debug {
			log.Printf("[aggregator] attempt %d failed: %v", attempt, err)
		}
		if attempt < maxRetries {
			select {
			case <-time.After(exponentialBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// doPost executes a single request. retryable distinguishes transient
// failures (network errors, 5xx) from definitive ones (4xx).
func (c *Client) doPost(ctx context.Context, url string, encoded []byte) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PriceWise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrAggregatorAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrAggregatorAPIFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, fmt.Errorf("%w: status %d", domain.ErrAggregatorAPIFailure, resp.StatusCode)
	}
	return body, false, nil
}

// exponentialBackoff returns the wait before the next retry:
// 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}
