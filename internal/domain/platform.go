package domain

// Platform identifies a quick-commerce retailer. The set is closed:
// adding a platform means adding a constant here and an entry in
// allPlatforms, nothing else.
type Platform string

const (
	PlatformZepto     Platform = "zepto"
	PlatformInstamart Platform = "swiggy-instamart"
	PlatformBigBasket Platform = "bigbasket"
	PlatformBlinkit   Platform = "blinkit"
	PlatformDmart     Platform = "dmart"
)

// allPlatforms defines the canonical ordering used wherever listings of a
// record are walked deterministically (tolerance reference, image pick).
var allPlatforms = []Platform{
	PlatformZepto,
	PlatformInstamart,
	PlatformBigBasket,
	PlatformBlinkit,
	PlatformDmart,
}

// AllPlatforms returns every known platform in canonical order.
func AllPlatforms() []Platform {
	out := make([]Platform, len(allPlatforms))
	copy(out, allPlatforms)
	return out
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range allPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform maps a wire string to a Platform.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.Valid()
}
