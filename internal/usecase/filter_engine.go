package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pricewise/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	deliveryHourRegex   = regexp.MustCompile(`(?i)(\d+)\s*hour`)
	deliveryRangeRegex  = regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s*min`)
	deliverySingleRegex = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

// unparseableDeliveryMinutes ranks unparseable delivery strings last and
// keeps them out of any tight delivery ceiling.
const unparseableDeliveryMinutes = 999

// FilterEngine applies user-selected filters and a sort order to a list
// of comparison records. It never mutates its input: every pass returns
// fresh records, so the canonical result set survives any sequence of
// filter changes.
type FilterEngine struct{}

// NewFilterEngine creates a filter engine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// Apply runs the filter pipeline in fixed order: platform narrowing,
// then price/rating/delivery constraints against the narrowed listings,
// then a stable sort. The order matters: a price ceiling is checked
// against the cheapest price after platform narrowing, not before.
func (e *FilterEngine) Apply(products []domain.MatchedProduct, filters domain.ComparisonFilters) []domain.MatchedProduct {
	allowed := filters.PlatformSet()

	out := make([]domain.MatchedProduct, 0, len(products))
	for _, product := range products {
		narrowed, ok := NarrowPlatforms(product, allowed)
		if !ok {
			continue
		}
		if !e.passesPriceBounds(narrowed, filters) {
			continue
		}
		if !e.passesRatingFloor(narrowed, filters) {
			continue
		}
		if !e.passesDeliveryCeiling(narrowed, filters) {
			continue
		}
		out = append(out, narrowed)
	}

	e.sortRecords(out, filters.SortBy)
	return out
}

// passesPriceBounds keeps a record iff its cheapest surviving listing
// sits inside [MinPrice, MaxPrice].
func (e *FilterEngine) passesPriceBounds(product domain.MatchedProduct, filters domain.ComparisonFilters) bool {
	cheapest := CheapestPrice(product)
	if filters.MaxPrice != nil && cheapest > *filters.MaxPrice {
		return false
	}
	if filters.MinPrice != nil && cheapest < *filters.MinPrice {
		return false
	}
	return true
}

// passesRatingFloor keeps a record iff its best-rated surviving listing
// meets the floor.
func (e *FilterEngine) passesRatingFloor(product domain.MatchedProduct, filters domain.ComparisonFilters) bool {
	if filters.MinRating == nil {
		return true
	}
	best := 0.0
	for _, listing := range product.Platforms {
		if listing.Rating > best {
			best = listing.Rating
		}
	}
	return best >= *filters.MinRating
}

// passesDeliveryCeiling keeps a record iff at least one surviving listing
// can deliver within the ceiling even in its worst case (upper bound of
// the advertised range).
func (e *FilterEngine) passesDeliveryCeiling(product domain.MatchedProduct, filters domain.ComparisonFilters) bool {
	if filters.MaxDeliveryTime == nil {
		return true
	}
	fastest := unparseableDeliveryMinutes
	for _, listing := range product.Platforms {
		if minutes := ParseDeliveryMinutes(listing.DeliveryTime, true); minutes < fastest {
			fastest = minutes
		}
	}
	return fastest <= *filters.MaxDeliveryTime
}

// ParseDeliveryMinutes converts a free-text delivery string to integer
// minutes. For a range like "10-20 mins" the bound is asymmetric on
// purpose: conservative callers (ceiling filters) take the upper bound so
// a worst case over the limit is excluded, optimistic callers (fastest
// sort) take the lower bound so the best-case ordering is shown.
// Unparseable strings yield 999.
func ParseDeliveryMinutes(deliveryTime string, conservative bool) int {
	s := strings.TrimSpace(deliveryTime)
	if s == "" {
		return unparseableDeliveryMinutes
	}

	if match := deliveryHourRegex.FindStringSubmatch(s); match != nil {
		hours, err := strconv.Atoi(match[1])
		if err == nil {
			return hours * 60
		}
	}

	if match := deliveryRangeRegex.FindStringSubmatch(s); match != nil {
		lower, errLo := strconv.Atoi(match[1])
		upper, errHi := strconv.Atoi(match[2])
		if errLo == nil && errHi == nil {
			if conservative {
				return upper
			}
			return lower
		}
	}

	if match := deliverySingleRegex.FindStringSubmatch(s); match != nil {
		minutes, err := strconv.Atoi(match[1])
		if err == nil {
			return minutes
		}
	}

	return unparseableDeliveryMinutes
}

// fastestDelivery is the minimum optimistic delivery estimate across a
// record's listings.
func fastestDelivery(product domain.MatchedProduct) int {
	fastest := unparseableDeliveryMinutes
	for _, listing := range product.Platforms {
		if minutes := ParseDeliveryMinutes(listing.DeliveryTime, false); minutes < fastest {
			fastest = minutes
		}
	}
	return fastest
}

func bestRating(product domain.MatchedProduct) float64 {
	best := 0.0
	for _, listing := range product.Platforms {
		if listing.Rating > best {
			best = listing.Rating
		}
	}
	return best
}

func mostReviews(product domain.MatchedProduct) int {
	most := 0
	for _, listing := range product.Platforms {
		if listing.ReviewCount > most {
			most = listing.ReviewCount
		}
	}
	return most
}

// sortRecords orders records in place with a stable sort, so equal-key
// records preserve their relative input order.
func (e *FilterEngine) sortRecords(products []domain.MatchedProduct, order domain.SortOrder) {
	switch order {
	case domain.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return CheapestPrice(products[i]) < CheapestPrice(products[j])
		})
	case domain.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return CheapestPrice(products[i]) > CheapestPrice(products[j])
		})
	case domain.SortDeliveryTime:
		sort.SliceStable(products, func(i, j int) bool {
			return fastestDelivery(products[i]) < fastestDelivery(products[j])
		})
	case domain.SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return bestRating(products[i]) > bestRating(products[j])
		})
	case domain.SortReviews:
		sort.SliceStable(products, func(i, j int) bool {
			return mostReviews(products[i]) > mostReviews(products[j])
		})
	default:
		// Multi-platform records first, then numeric-aware name order.
		sort.SliceStable(products, func(i, j int) bool {
			ci, cj := PlatformCount(products[i]), PlatformCount(products[j])
			if ci != cj {
				return ci > cj
			}
			return naturalLess(products[i].Name, products[j].Name)
		})
	}
}

// naturalLess compares names case-insensitively with digit runs compared
// numerically, so "Atta 2 kg" sorts before "Atta 10 kg".
func naturalLess(a, b string) bool {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if isDigit(ca) && isDigit(cb) {
			va, ni := takeNumber(ra, i)
			vb, nj := takeNumber(rb, j)
			if va != vb {
				return va < vb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// takeNumber reads a digit run starting at i and returns its value and
// the index past it.
func takeNumber(runes []rune, i int) (int64, int) {
	var value int64
	for i < len(runes) && isDigit(runes[i]) {
		value = value*10 + int64(runes[i]-'0')
		i++
	}
	return value, i
}
