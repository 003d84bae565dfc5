package usecase

import (
	"log"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pricewise/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	bracketedTextRegex  = regexp.MustCompile(`[\(\[\{][^\)\]\}]*[\)\]\}]`)
	fillerWordsRegex    = regexp.MustCompile(`\b(100%|0%|with|without|for|the|a|an)\b`)
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Similarity weighting: character-level similarity carries most of the
// signal, word overlap corrects for reordered or partially elided names.
const (
	charSimilarityWeight       = 0.6
	wordOverlapWeight          = 0.4
	defaultSimilarityThreshold = 0.6
)

var titleCaser = cases.Title(language.English)

// NameMatcherConfig holds configuration for the name matcher.
type NameMatcherConfig struct {
	SimilarityThreshold float64
	EnableDebugLogging  bool
}

// NameMatcher groups raw per-platform listings that describe the same
// product, using name similarity.
type NameMatcher struct {
	similarityThreshold float64
	enableDebugLogging  bool
}

// NewNameMatcher creates a name matcher with the given configuration.
func NewNameMatcher(config NameMatcherConfig) *NameMatcher {
	threshold := config.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultSimilarityThreshold
	}
	return &NameMatcher{
		similarityThreshold: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// normalizeProductName prepares a product name for comparison: bracketed
// text like "(5 kg)" or "[Premium]" goes first, then filler words,
// punctuation, and extra whitespace.
func normalizeProductName(name string) string {
	normalized := bracketedTextRegex.ReplaceAllString(name, "")
	normalized = strings.ToLower(normalized)
	normalized = fillerWordsRegex.ReplaceAllString(normalized, "")
	normalized = punctuationRegex.ReplaceAllString(normalized, " ")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// Similarity scores two product names in [0, 1].
func (m *NameMatcher) Similarity(name1, name2 string) float64 {
	n1 := normalizeProductName(name1)
	n2 := normalizeProductName(name2)
	if n1 == "" || n2 == "" {
		return 0
	}
	if n1 == n2 {
		return 1
	}

	charSim := characterSimilarity(n1, n2)

	words1 := strings.Fields(n1)
	words2 := strings.Fields(n2)
	common, _ := findIntersection(words1, words2)
	longer := len(words1)
	if len(words2) > longer {
		longer = len(words2)
	}
	wordOverlap := float64(common) / float64(longer)

	return charSim*charSimilarityWeight + wordOverlap*wordOverlapWeight
}

// characterSimilarity derives a ratio in [0, 1] from the edit distance
// between two normalized names.
func characterSimilarity(s1, s2 string) float64 {
	longer := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > longer {
		longer = l2
	}
	if longer == 0 {
		return 1
	}
	dist := levenshteinDistance(s1, s2)
	return 1 - float64(dist)/float64(longer)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// Group merges raw per-platform listings into comparison records. Lists
// are folded in canonical platform order: each listing either joins the
// existing group it resembles most (above the similarity threshold, one
// listing per platform per group) or starts a new single-platform group.
func (m *NameMatcher) Group(products []domain.PlatformProduct) []domain.MatchedProduct {
	byPlatform := make(map[domain.Platform][]domain.PlatformProduct)
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		byPlatform[p.Platform] = append(byPlatform[p.Platform], p)
	}

	var groups []*productGroup
	for _, platform := range domain.AllPlatforms() {
		for _, product := range byPlatform[platform] {
			best := m.bestGroup(groups, product)
			if best != nil {
				best.add(product)
				continue
			}
			groups = append(groups, newProductGroup(product))
		}
	}

	records := make([]domain.MatchedProduct, 0, len(groups))
	for _, g := range groups {
		records = append(records, g.record())
	}

	if m.enableDebugLogging {
		log.Printf("[match] grouped %d raw listings into %d records", len(products), len(records))
	}
	return records
}

// bestGroup finds the most similar open group for a listing, or nil when
// nothing clears the threshold. Groups that already hold a listing from
// the same platform are skipped so each record keeps one listing per
// platform.
func (m *NameMatcher) bestGroup(groups []*productGroup, product domain.PlatformProduct) *productGroup {
	var best *productGroup
	bestScore := 0.0

	for _, g := range groups {
		if _, taken := g.listings[product.Platform]; taken {
			continue
		}
		score := m.Similarity(g.seedName, product.Name)
		if score >= m.similarityThreshold && score > bestScore {
			bestScore = score
			best = g
		}
	}

	if best != nil && m.enableDebugLogging {
		log.Printf("[match] %q joins %q (similarity %.2f)", product.Name, best.seedName, bestScore)
	}
	return best
}

// productGroup accumulates per-platform listings for one product while
// grouping is in progress.
type productGroup struct {
	seedName      string
	originalNames map[domain.Platform]string
	listings      map[domain.Platform]domain.PlatformListing
}

func newProductGroup(seed domain.PlatformProduct) *productGroup {
	g := &productGroup{
		seedName:      seed.Name,
		originalNames: make(map[domain.Platform]string),
		listings:      make(map[domain.Platform]domain.PlatformListing),
	}
	g.add(seed)
	return g
}

func (g *productGroup) add(product domain.PlatformProduct) {
	g.originalNames[product.Platform] = product.Name
	g.listings[product.Platform] = product.Listing()
}

// record finalizes the group into a MatchedProduct. The display name is
// the shortest normalized original name (usually the cleanest), title
// cased; the image is the first non-empty listing image in canonical
// platform order.
func (g *productGroup) record() domain.MatchedProduct {
	name := ""
	image := ""
	for _, platform := range domain.AllPlatforms() {
		original, ok := g.originalNames[platform]
		if !ok {
			continue
		}
		normalized := normalizeProductName(original)
		if name == "" || len(normalized) < len(name) {
			name = normalized
		}
		if image == "" {
			image = g.listings[platform].Image
		}
	}

	return domain.MatchedProduct{
		Name:          titleCaser.String(name),
		Image:         image,
		OriginalNames: g.originalNames,
		Platforms:     g.listings,
	}
}
