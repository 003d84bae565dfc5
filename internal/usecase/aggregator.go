package usecase

import (
	"github.com/pricewise/backend/internal/domain"
)

// ProductAggregator validates matched groups by quantity compatibility
// and computes cross-platform derived fields. Derived fields are pure
// functions recomputed on demand, never cached on the record, so they
// stay correct after a listing is filtered out.
type ProductAggregator struct {
	quantities *QuantityMatcher
}

// NewProductAggregator creates an aggregator backed by the given quantity
// matcher.
func NewProductAggregator(quantities *QuantityMatcher) *ProductAggregator {
	return &ProductAggregator{quantities: quantities}
}

// Comparable reports whether the record's per-platform listings describe
// the same purchasable unit. Listings are walked in canonical platform
// order so the decision is deterministic. An incompatible record is not
// an error: whether it is dropped or shown ungrouped is the caller's
// policy.
func (a *ProductAggregator) Comparable(product domain.MatchedProduct) bool {
	raws := make([]string, 0, len(product.Platforms))
	for _, platform := range domain.AllPlatforms() {
		if listing, ok := product.Platforms[platform]; ok {
			raws = append(raws, listing.Quantity)
		}
	}
	return a.quantities.Compatible(raws)
}

// CheapestPrice returns the lowest price across the record's listings,
// or 0 for a record with no listings.
func CheapestPrice(product domain.MatchedProduct) float64 {
	first := true
	cheapest := 0.0
	for _, listing := range product.Platforms {
		if first || listing.Price < cheapest {
			cheapest = listing.Price
			first = false
		}
	}
	return cheapest
}

// MostExpensivePrice returns the highest price across the record's
// listings, or 0 for a record with no listings.
func MostExpensivePrice(product domain.MatchedProduct) float64 {
	most := 0.0
	for _, listing := range product.Platforms {
		if listing.Price > most {
			most = listing.Price
		}
	}
	return most
}

// Savings is the spread between the most expensive and cheapest listing.
func Savings(product domain.MatchedProduct) float64 {
	if len(product.Platforms) == 0 {
		return 0
	}
	return MostExpensivePrice(product) - CheapestPrice(product)
}

// PlatformCount returns how many platforms carry the product.
func PlatformCount(product domain.MatchedProduct) int {
	return len(product.Platforms)
}

// NarrowPlatforms copies the record keeping only listings whose platform
// is in allowed, filtering OriginalNames in lock-step. A nil set means no
// restriction. ok is false when no listing survives: a record with zero
// platform listings does not exist for display purposes and must be
// dropped by the caller.
func NarrowPlatforms(product domain.MatchedProduct, allowed map[domain.Platform]bool) (domain.MatchedProduct, bool) {
	if allowed == nil {
		return product.Clone(), len(product.Platforms) > 0
	}

	out := domain.MatchedProduct{
		Name:          product.Name,
		Image:         product.Image,
		OriginalNames: make(map[domain.Platform]string),
		Platforms:     make(map[domain.Platform]domain.PlatformListing),
	}
	for platform, listing := range product.Platforms {
		if !allowed[platform] {
			continue
		}
		out.Platforms[platform] = listing
		if name, ok := product.OriginalNames[platform]; ok {
			out.OriginalNames[platform] = name
		}
	}
	return out, len(out.Platforms) > 0
}
