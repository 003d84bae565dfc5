package usecase

import (
	"reflect"
	"testing"

	"github.com/pricewise/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func record(name string, listings map[domain.Platform]domain.PlatformListing) domain.MatchedProduct {
	names := make(map[domain.Platform]string, len(listings))
	for platform := range listings {
		names[platform] = name
	}
	return domain.MatchedProduct{
		Name:          name,
		OriginalNames: names,
		Platforms:     listings,
	}
}

func recordNames(products []domain.MatchedProduct) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func TestApplyPlatformNarrowing(t *testing.T) {
	engine := NewFilterEngine()
	products := []domain.MatchedProduct{
		record("Milk", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto:   {Price: 60},
			domain.PlatformBlinkit: {Price: 55},
		}),
		record("Butter", map[domain.Platform]domain.PlatformListing{
			domain.PlatformBlinkit: {Price: 275},
		}),
	}

	t.Run("keeps only requested platforms and drops emptied records", func(t *testing.T) {
		out := engine.Apply(products, domain.ComparisonFilters{
			Platforms: []domain.Platform{domain.PlatformZepto},
		})
		if len(out) != 1 {
			t.Fatalf("got %d records, want 1", len(out))
		}
		if out[0].Name != "Milk" {
			t.Errorf("surviving record = %q, want Milk", out[0].Name)
		}
		if len(out[0].Platforms) != 1 {
			t.Errorf("platforms = %d, want 1", len(out[0].Platforms))
		}
	})

	t.Run("empty platform set means no restriction", func(t *testing.T) {
		out := engine.Apply(products, domain.ComparisonFilters{})
		if len(out) != 2 {
			t.Errorf("got %d records, want 2 (defensive: empty set must not wipe the view)", len(out))
		}
	})

	t.Run("never mutates the canonical records", func(t *testing.T) {
		_ = engine.Apply(products, domain.ComparisonFilters{
			Platforms: []domain.Platform{domain.PlatformZepto},
		})
		if len(products[0].Platforms) != 2 {
			t.Errorf("input record has %d platforms after Apply, want 2", len(products[0].Platforms))
		}
	})
}

func TestApplyPriceCeiling(t *testing.T) {
	engine := NewFilterEngine()
	products := []domain.MatchedProduct{
		record("Cheap", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40},
		}),
		record("Pricey", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 90},
		}),
		record("Mixed", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto:   {Price: 120},
			domain.PlatformBlinkit: {Price: 45},
		}),
	}

	t.Run("filter monotonicity", func(t *testing.T) {
		ceiling := 50.0
		out := engine.Apply(products, domain.ComparisonFilters{MaxPrice: floatPtr(ceiling)})
		for _, p := range out {
			if CheapestPrice(p) > ceiling {
				t.Errorf("record %q has cheapest %v above ceiling %v", p.Name, CheapestPrice(p), ceiling)
			}
		}
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"Mixed", "Cheap"}) && !reflect.DeepEqual(got, []string{"Cheap", "Mixed"}) {
			t.Errorf("survivors = %v, want Cheap and Mixed", got)
		}
	})

	t.Run("ceiling is checked after platform narrowing", func(t *testing.T) {
		// Mixed is cheapest at 45 on blinkit; narrowed to zepto only, its
		// cheapest becomes 120 and the ceiling must reject it.
		out := engine.Apply(products, domain.ComparisonFilters{
			Platforms: []domain.Platform{domain.PlatformZepto},
			MaxPrice:  floatPtr(50),
		})
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"Cheap"}) {
			t.Errorf("survivors = %v, want [Cheap]", got)
		}
	})

	t.Run("price floor", func(t *testing.T) {
		out := engine.Apply(products, domain.ComparisonFilters{MinPrice: floatPtr(50)})
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"Pricey"}) {
			t.Errorf("survivors = %v, want [Pricey]", got)
		}
	})
}

func TestApplyRatingFloor(t *testing.T) {
	engine := NewFilterEngine()
	products := []domain.MatchedProduct{
		record("WellRated", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40, Rating: 4.5},
		}),
		record("PoorlyRated", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40, Rating: 2.1},
		}),
		record("Unrated", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40},
		}),
	}

	out := engine.Apply(products, domain.ComparisonFilters{MinRating: floatPtr(4.0)})
	if got := recordNames(out); !reflect.DeepEqual(got, []string{"WellRated"}) {
		t.Errorf("survivors = %v, want [WellRated]", got)
	}
}

func TestParseDeliveryMinutes(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		conservative bool
		want         int
	}{
		{name: "range upper bound for ceilings", input: "10-20 mins", conservative: true, want: 20},
		{name: "range lower bound for sorting", input: "10-20 mins", conservative: false, want: 10},
		{name: "single value", input: "8 mins", conservative: true, want: 8},
		{name: "single value optimistic", input: "8 mins", conservative: false, want: 8},
		{name: "hours", input: "2 hours", conservative: true, want: 120},
		{name: "range without spaces", input: "10-15mins", conservative: true, want: 15},
		{name: "unparseable", input: "by tomorrow", conservative: true, want: 999},
		{name: "empty", input: "", conservative: false, want: 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDeliveryMinutes(tt.input, tt.conservative); got != tt.want {
				t.Errorf("ParseDeliveryMinutes(%q, %v) = %d, want %d", tt.input, tt.conservative, got, tt.want)
			}
		})
	}
}

func TestApplyDeliveryCeilingAsymmetry(t *testing.T) {
	engine := NewFilterEngine()
	products := []domain.MatchedProduct{
		record("Borderline", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40, DeliveryTime: "10-20 mins"},
		}),
	}

	// The ceiling uses the upper bound: worst case 20 exceeds the limit.
	out := engine.Apply(products, domain.ComparisonFilters{MaxDeliveryTime: intPtr(15)})
	if len(out) != 0 {
		t.Errorf("got %d records, want 0 (ceiling is conservative)", len(out))
	}

	// Sorting uses the lower bound: the same record ranks at 10, ahead of
	// a flat 12-minute competitor.
	racers := []domain.MatchedProduct{
		record("Flat12", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40, DeliveryTime: "12 mins"},
		}),
		record("Borderline", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto: {Price: 40, DeliveryTime: "10-20 mins"},
		}),
	}
	sorted := engine.Apply(racers, domain.ComparisonFilters{SortBy: domain.SortDeliveryTime})
	if got := recordNames(sorted); !reflect.DeepEqual(got, []string{"Borderline", "Flat12"}) {
		t.Errorf("order = %v, want [Borderline Flat12] (sort is optimistic)", got)
	}
}

func TestApplySorting(t *testing.T) {
	engine := NewFilterEngine()

	t.Run("price low and high", func(t *testing.T) {
		products := []domain.MatchedProduct{
			record("B", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 90}}),
			record("A", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 40}}),
			record("C", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 60}}),
		}

		low := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortPriceLow})
		if got := recordNames(low); !reflect.DeepEqual(got, []string{"A", "C", "B"}) {
			t.Errorf("price-low order = %v", got)
		}

		high := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortPriceHigh})
		if got := recordNames(high); !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
			t.Errorf("price-high order = %v", got)
		}
	})

	t.Run("stable sort preserves input order on ties", func(t *testing.T) {
		products := []domain.MatchedProduct{
			record("First", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 55}}),
			record("Second", map[domain.Platform]domain.PlatformListing{domain.PlatformBlinkit: {Price: 55}}),
		}
		out := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortPriceLow})
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"First", "Second"}) {
			t.Errorf("order = %v, want input order preserved on equal keys", got)
		}
	})

	t.Run("rating and reviews sort descending", func(t *testing.T) {
		products := []domain.MatchedProduct{
			record("Low", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Rating: 3.9, ReviewCount: 10}}),
			record("High", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Rating: 4.6, ReviewCount: 300}}),
		}

		byRating := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortRating})
		if got := recordNames(byRating); !reflect.DeepEqual(got, []string{"High", "Low"}) {
			t.Errorf("rating order = %v", got)
		}

		byReviews := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortReviews})
		if got := recordNames(byReviews); !reflect.DeepEqual(got, []string{"High", "Low"}) {
			t.Errorf("reviews order = %v", got)
		}
	})

	t.Run("default sort puts multi-platform records first", func(t *testing.T) {
		products := []domain.MatchedProduct{
			record("Single", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 40}}),
			record("Double", map[domain.Platform]domain.PlatformListing{
				domain.PlatformZepto:   {Price: 60},
				domain.PlatformBlinkit: {Price: 55},
			}),
		}
		out := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortDefault})
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"Double", "Single"}) {
			t.Errorf("default order = %v", got)
		}
	})

	t.Run("default sort name tiebreak is numeric aware", func(t *testing.T) {
		products := []domain.MatchedProduct{
			record("Atta 10 kg", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 400}}),
			record("Atta 2 kg", map[domain.Platform]domain.PlatformListing{domain.PlatformZepto: {Price: 90}}),
		}
		out := engine.Apply(products, domain.ComparisonFilters{SortBy: domain.SortDefault})
		if got := recordNames(out); !reflect.DeepEqual(got, []string{"Atta 2 kg", "Atta 10 kg"}) {
			t.Errorf("order = %v, want numeric-aware [Atta 2 kg, Atta 10 kg]", got)
		}
	})
}

func TestApplyIdempotence(t *testing.T) {
	engine := NewFilterEngine()
	products := []domain.MatchedProduct{
		record("Milk", map[domain.Platform]domain.PlatformListing{
			domain.PlatformZepto:   {Price: 60, DeliveryTime: "10 mins"},
			domain.PlatformBlinkit: {Price: 55, DeliveryTime: "15 mins"},
		}),
		record("Butter", map[domain.Platform]domain.PlatformListing{
			domain.PlatformBlinkit: {Price: 275, DeliveryTime: "15 mins"},
		}),
	}
	filters := domain.ComparisonFilters{
		Platforms: []domain.Platform{domain.PlatformZepto, domain.PlatformBlinkit},
		MaxPrice:  floatPtr(300),
		SortBy:    domain.SortPriceLow,
	}

	once := engine.Apply(products, filters)
	twice := engine.Apply(once, filters)

	if !reflect.DeepEqual(once, twice) {
		t.Error("applying the same filters twice narrowed the list further")
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"atta 2 kg", "atta 10 kg", true},
		{"atta 10 kg", "atta 2 kg", false},
		{"Apple", "banana", true},
		{"same", "same", false},
		{"item", "item 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := naturalLess(tt.a, tt.b); got != tt.want {
				t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
