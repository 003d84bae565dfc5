package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pricewise/backend/internal/domain"
)

// Package-level compiled regex pattern for performance. Longer unit tokens
// come first so "kg" is never consumed as a bare "g".
var quantityRegex = regexp.MustCompile(
	`(?i)(\d+(?:\.\d+)?)\s*(kilograms?|kgs?|grams?|gms?|g|packs?|pieces?|pcs?)\b`,
)

// ParseQuantity extracts a value/unit pair from a free-text quantity
// string ("1 kg", "500 g", "2 packs"). Returns nil when no numeric+unit
// pattern matches; absence is the error signal, malformed input never
// raises an error.
func ParseQuantity(raw string) *domain.Quantity {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	match := quantityRegex.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value <= 0 {
		return nil
	}

	return &domain.Quantity{Value: value, Unit: normalizeUnit(match[2])}
}

// normalizeUnit collapses unit synonyms: gram/grams/gm -> g,
// kilogram/kilograms -> kg, pc/pcs/piece/pieces -> pack.
func normalizeUnit(token string) domain.Unit {
	switch strings.ToLower(token) {
	case "kg", "kgs", "kilogram", "kilograms":
		return domain.UnitKilogram
	case "g", "gm", "gms", "gram", "grams":
		return domain.UnitGram
	default:
		return domain.UnitPack
	}
}

// Tolerance constants for cross-platform quantity comparison. Platforms
// round pack sizes differently (900 g vs 1 kg); a 2x band tolerates common
// repackaging without conflating genuinely different SKUs (200 g vs 1 kg
// fails at ratio 5).
const (
	defaultToleranceRatio = 2.0
	floatEqualitySlack    = 0.01
)

// QuantityMatcherConfig holds configuration for the quantity matcher.
type QuantityMatcherConfig struct {
	ToleranceRatio float64
}

// QuantityMatcher decides whether a group of per-platform quantity strings
// describes the same purchasable unit.
type QuantityMatcher struct {
	toleranceRatio float64
}

// NewQuantityMatcher creates a quantity matcher with the given
// configuration, falling back to the 2x default band.
func NewQuantityMatcher(config QuantityMatcherConfig) *QuantityMatcher {
	ratio := config.ToleranceRatio
	if ratio <= 1 {
		ratio = defaultToleranceRatio
	}
	return &QuantityMatcher{toleranceRatio: ratio}
}

// Compatible reports whether the quantity strings, taken in the order
// given, describe the same purchasable unit. Rules, in order:
//  1. groups of size <= 1 are compatible;
//  2. no parseable quantity at all: compatible (cannot disprove);
//  3. some but not all parseable: incompatible (cannot certify the
//     unmatched one is equivalent);
//  4. any pack unit: fall back to raw-string equality across the group
//     (packs are not convertible to weight);
//  5. otherwise convert to kilograms and require each value to sit within
//     the tolerance band of the first one.
func (m *QuantityMatcher) Compatible(raws []string) bool {
	if len(raws) <= 1 {
		return true
	}

	parsed := make([]*domain.Quantity, len(raws))
	parseable := 0
	for i, raw := range raws {
		parsed[i] = ParseQuantity(raw)
		if parsed[i] != nil {
			parseable++
		}
	}

	if parseable == 0 {
		return true
	}
	if parseable < len(raws) {
		return false
	}

	for _, q := range parsed {
		if q.Unit == domain.UnitPack {
			return rawStringsEqual(raws)
		}
	}

	reference, _ := parsed[0].Kilograms()
	for _, q := range parsed[1:] {
		value, _ := q.Kilograms()
		if !m.withinTolerance(reference, value) {
			return false
		}
	}
	return true
}

func (m *QuantityMatcher) withinTolerance(reference, value float64) bool {
	diff := value - reference
	if diff < 0 {
		diff = -diff
	}
	if diff < floatEqualitySlack {
		return true
	}

	lo, hi := reference, value
	if lo > hi {
		lo, hi = hi, lo
	}
	return hi/lo <= m.toleranceRatio
}

// rawStringsEqual checks whether every raw quantity string is the same,
// ignoring case and surrounding whitespace.
func rawStringsEqual(raws []string) bool {
	first := strings.ToLower(strings.TrimSpace(raws[0]))
	for _, raw := range raws[1:] {
		if strings.ToLower(strings.TrimSpace(raw)) != first {
			return false
		}
	}
	return true
}
