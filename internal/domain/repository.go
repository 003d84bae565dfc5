package domain

import "context"

// ResultCache memoizes raw (pre-filter) comparison result sets per search
// key. Filtering and sorting are always re-run fresh against the cached
// records, never cached themselves.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]MatchedProduct, error)
	Set(ctx context.Context, key string, products []MatchedProduct) error
	Delete(ctx context.Context, key string) error
}

// AggregatorClient talks to the external scraping/aggregation backend.
type AggregatorClient interface {
	// SearchAll issues a cross-platform search and returns pre-matched
	// comparison records.
	SearchAll(ctx context.Context, query string, location Location, platforms []Platform) ([]MatchedProduct, error)

	// SearchPlatform issues a single-platform search and returns raw,
	// ungrouped listings.
	SearchPlatform(ctx context.Context, platform Platform, query string, location Location) ([]PlatformProduct, error)
}

// GeocodingClient resolves free-text and coordinate lookups to addresses.
type GeocodingClient interface {
	Autocomplete(ctx context.Context, text string) ([]GeoSuggestion, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeoSuggestion, error)
}
