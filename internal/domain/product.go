package domain

// Unit is a normalized quantity unit. Weight units convert between each
// other; pack does not.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitPack     Unit = "pack"
)

// Quantity is a parsed purchasable amount. Value is always positive;
// an unparseable quantity string is represented as a nil *Quantity,
// never as a zero value.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Kilograms converts a weight quantity to kilograms. Pack quantities are
// not convertible and report ok=false.
func (q Quantity) Kilograms() (float64, bool) {
	switch q.Unit {
	case UnitKilogram:
		return q.Value, true
	case UnitGram:
		return q.Value / 1000, true
	default:
		return 0, false
	}
}

// PlatformListing is one platform's offer for a product. It is owned by
// the MatchedProduct that contains it and never shared across records.
type PlatformListing struct {
	Price        float64 `json:"price"`
	Currency     string  `json:"currency,omitempty"`
	Quantity     string  `json:"quantity"`
	DeliveryTime string  `json:"deliveryTime"`
	DeliveryFee  float64 `json:"deliveryFee,omitempty"`
	Image        string  `json:"image,omitempty"`
	Link         string  `json:"link"`
	Rating       float64 `json:"rating,omitempty"`
	ReviewCount  int     `json:"reviewCount,omitempty"`
	Available    bool    `json:"availability"`
}

// MatchedProduct is one canonical product with at most one listing per
// platform. Records are created once per search response and treated as
// immutable afterwards: filtering and sorting operate on copies.
type MatchedProduct struct {
	Name          string                       `json:"name"`
	Image         string                       `json:"image"`
	OriginalNames map[Platform]string          `json:"original_names"`
	Platforms     map[Platform]PlatformListing `json:"platforms"`
}

// Clone returns a deep copy of the record. The maps are duplicated so the
// copy can be narrowed without touching the canonical record.
func (p MatchedProduct) Clone() MatchedProduct {
	out := MatchedProduct{
		Name:          p.Name,
		Image:         p.Image,
		OriginalNames: make(map[Platform]string, len(p.OriginalNames)),
		Platforms:     make(map[Platform]PlatformListing, len(p.Platforms)),
	}
	for platform, name := range p.OriginalNames {
		out.OriginalNames[platform] = name
	}
	for platform, listing := range p.Platforms {
		out.Platforms[platform] = listing
	}
	return out
}

// PlatformProduct is a raw single-platform listing as returned by the
// per-platform upstream endpoint, before cross-platform grouping.
type PlatformProduct struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Image        string   `json:"image,omitempty"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency,omitempty"`
	Platform     Platform `json:"platform"`
	Available    bool     `json:"availability"`
	Rating       float64  `json:"rating,omitempty"`
	ReviewCount  int      `json:"reviewCount,omitempty"`
	Link         string   `json:"link,omitempty"`
	Quantity     string   `json:"quantity,omitempty"`
	DeliveryTime string   `json:"deliveryTime,omitempty"`
	DeliveryFee  float64  `json:"deliveryFee,omitempty"`
}

// Listing converts a raw platform product into the listing shape embedded
// in a MatchedProduct.
func (p PlatformProduct) Listing() PlatformListing {
	return PlatformListing{
		Price:        p.Price,
		Currency:     p.Currency,
		Quantity:     p.Quantity,
		DeliveryTime: p.DeliveryTime,
		DeliveryFee:  p.DeliveryFee,
		Image:        p.Image,
		Link:         p.Link,
		Rating:       p.Rating,
		ReviewCount:  p.ReviewCount,
		Available:    p.Available,
	}
}

// Coordinates is a lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is the delivery location a search is scoped to.
type Location struct {
	Address     string      `json:"address,omitempty"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
	Country     string      `json:"country,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// SearchRequest is the inbound search payload.
type SearchRequest struct {
	Query     string             `json:"query" binding:"required"`
	Location  Location           `json:"location"`
	Platforms []Platform         `json:"platforms"`
	Filters   *ComparisonFilters `json:"filters,omitempty"`
}

// SearchResult is the outcome of one comparison search.
type SearchResult struct {
	Products        []MatchedProduct `json:"products"`
	TotalProducts   int              `json:"total_products"`
	MatchedProducts int              `json:"matched_products"`
	SearchQuery     string           `json:"search_query"`
	Location        Location         `json:"location"`
	Source          string           `json:"source"` // "live" or "cache"
}

// GeoSuggestion is one geocoding result row (autocomplete or reverse).
type GeoSuggestion struct {
	Formatted string  `json:"formatted"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}
