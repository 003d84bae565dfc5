package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrAggregatorAPIFailure is returned when the scraping backend request fails
	ErrAggregatorAPIFailure = errors.New("aggregator API request failed")

	// ErrGeocodingFailure is returned when a Geoapify request fails
	ErrGeocodingFailure = errors.New("geocoding request failed")
)
