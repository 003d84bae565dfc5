package domain

// SortOrder selects the comparator applied to a comparison view.
type SortOrder string

const (
	SortPriceLow     SortOrder = "price-low"
	SortPriceHigh    SortOrder = "price-high"
	SortRating       SortOrder = "rating"
	SortReviews      SortOrder = "reviews"
	SortDeliveryTime SortOrder = "delivery-time"

	// SortDefault orders multi-platform records first, tie-broken by a
	// case-insensitive numeric-aware name compare. Unknown or empty
	// sortBy values fall back to it.
	SortDefault SortOrder = "default"
)

// ComparisonFilters are the user-selected constraints and sort order for
// a result set. An empty Platforms slice means "no platform restriction":
// the UI keeps at least one platform selected, but the engine must not
// wipe out the result set if that invariant is ever violated.
type ComparisonFilters struct {
	Platforms       []Platform `json:"platforms"`
	MinPrice        *float64   `json:"minPrice,omitempty"`
	MaxPrice        *float64   `json:"maxPrice,omitempty"`
	MinRating       *float64   `json:"minRating,omitempty"`
	MaxDeliveryTime *int       `json:"maxDeliveryTime,omitempty"` // minutes
	SortBy          SortOrder  `json:"sortBy,omitempty"`
}

// PlatformSet returns the platform restriction as a set, or nil when no
// restriction applies.
func (f ComparisonFilters) PlatformSet() map[Platform]bool {
	if len(f.Platforms) == 0 {
		return nil
	}
	set := make(map[Platform]bool, len(f.Platforms))
	for _, p := range f.Platforms {
		set[p] = true
	}
	return set
}
