package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pricewise/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	cacheSpacesRegex     = regexp.MustCompile(`\s+`)
)

// SearchServiceConfig holds configuration for the search service.
type SearchServiceConfig struct {
	SimilarityThreshold float64
	ToleranceRatio      float64

	// DropIncomparable drops records whose listings fail the quantity
	// compatibility check. When false they are kept and shown as-is.
	DropIncomparable bool

	// LocalMatching fans out per-platform upstream requests and groups
	// the raw listings locally instead of relying on the backend's
	// pre-matched response.
	LocalMatching bool

	EnableDebugLogging bool
}

// SearchService runs the comparison pipeline: cache lookup, upstream
// fetch, quantity validation, then filtering and sorting. Filtering is
// always re-run fresh, so changing a filter never re-fetches.
type SearchService struct {
	cache      domain.ResultCache
	client     domain.AggregatorClient
	aggregator *ProductAggregator
	engine     *FilterEngine
	matcher    *NameMatcher

	dropIncomparable bool
	localMatching    bool
	debug            bool
}

// NewSearchService creates a search service with dependencies.
func NewSearchService(
	cache domain.ResultCache,
	client domain.AggregatorClient,
	config SearchServiceConfig,
) *SearchService {
	return &SearchService{
		cache:  cache,
		client: client,
		aggregator: NewProductAggregator(NewQuantityMatcher(QuantityMatcherConfig{
			ToleranceRatio: config.ToleranceRatio,
		})),
		engine: NewFilterEngine(),
		matcher: NewNameMatcher(NameMatcherConfig{
			SimilarityThreshold: config.SimilarityThreshold,
			EnableDebugLogging:  config.EnableDebugLogging,
		}),
		dropIncomparable: config.DropIncomparable,
		localMatching:    config.LocalMatching,
		debug:            config.EnableDebugLogging,
	}
}

// Search resolves a comparison view for the request. Upstream failures
// degrade to an empty result set; an empty final list is a valid "no
// results" state, never an error.
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil || strings.TrimSpace(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	platforms := request.Platforms
	if len(platforms) == 0 {
		platforms = domain.AllPlatforms()
	}

	source := "cache"
	cacheKey := buildCacheKey(request.Query, request.Location, platforms)
	products, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		source = "live"
		products = s.fetch(ctx, request.Query, request.Location, platforms)
		if err := s.cache.Set(ctx, cacheKey, products); err != nil {
			log.Printf("[search] cache set failed: %v", err)
		}
	}

	comparable := s.validate(products)

	filters := domain.ComparisonFilters{Platforms: platforms}
	if request.Filters != nil {
		filters = *request.Filters
	}
	filtered := s.engine.Apply(comparable, filters)

	matched := 0
	for _, product := range filtered {
		if PlatformCount(product) > 1 {
			matched++
		}
	}

	return &domain.SearchResult{
		Products:        filtered,
		TotalProducts:   len(filtered),
		MatchedProducts: matched,
		SearchQuery:     request.Query,
		Location:        request.Location,
		Source:          source,
	}, nil
}

// fetch pulls raw comparison records from the upstream backend. Partial
// or failed upstream results are accepted silently: a platform that
// timed out simply contributes nothing.
func (s *SearchService) fetch(ctx context.Context, query string, location domain.Location, platforms []domain.Platform) []domain.MatchedProduct {
	if s.localMatching {
		return s.fetchAndGroup(ctx, query, location, platforms)
	}

	products, err := s.client.SearchAll(ctx, query, location, platforms)
	if err != nil {
		log.Printf("[search] upstream search failed, returning zero results: %v", err)
		return nil
	}
	return products
}

// fetchAndGroup fans out one upstream request per platform and groups
// the raw listings locally by name similarity.
func (s *SearchService) fetchAndGroup(ctx context.Context, query string, location domain.Location, platforms []domain.Platform) []domain.MatchedProduct {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		raw []domain.PlatformProduct
	)

	for _, platform := range platforms {
		wg.Add(1)
		go func(platform domain.Platform) {
			defer wg.Done()
			products, err := s.client.SearchPlatform(ctx, platform, query, location)
			if err != nil {
				log.Printf("[search] platform %s failed: %v", platform, err)
				return
			}
			mu.Lock()
			raw = append(raw, products...)
			mu.Unlock()
		}(platform)
	}
	wg.Wait()

	if s.debug {
		log.Printf("[search] %d raw listings fetched for %q", len(raw), query)
	}
	return s.matcher.Group(raw)
}

// validate applies the quantity-compatibility policy. Records with an
// empty platform map are always dropped: they do not exist for display
// purposes.
func (s *SearchService) validate(products []domain.MatchedProduct) []domain.MatchedProduct {
	out := make([]domain.MatchedProduct, 0, len(products))
	for _, product := range products {
		if len(product.Platforms) == 0 {
			continue
		}
		if s.dropIncomparable && !s.aggregator.Comparable(product) {
			if s.debug {
				log.Printf("[search] dropping %q: quantities not comparable", product.Name)
			}
			continue
		}
		out = append(out, product)
	}
	return out
}

// Comparable exposes the quantity-compatibility decision for callers
// that keep incomparable records and need to present them differently.
func (s *SearchService) Comparable(product domain.MatchedProduct) bool {
	return s.aggregator.Comparable(product)
}

// buildCacheKey derives the memoization key for a search: normalized
// query, serialized location, and the sorted platform list.
// Format: "search:{query}:{lat,lng,city}:{platforms}"
func buildCacheKey(query string, location domain.Location, platforms []domain.Platform) string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}
	sort.Strings(names)

	return fmt.Sprintf("search:%s:%s:%s",
		normalizeForCacheKey(query),
		serializeLocation(location),
		strings.Join(names, ","),
	)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = cacheSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func serializeLocation(location domain.Location) string {
	return fmt.Sprintf("%.4f,%.4f,%s",
		location.Coordinates.Lat,
		location.Coordinates.Lng,
		normalizeForCacheKey(location.City),
	)
}
