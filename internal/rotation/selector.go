// internal/rotation/selector.go

// Package rotation selects which campaign keywords a fetch cycle spends
// its search budget on. Allocation across categories is proportional to
// configured weights; within a category the least-served keywords go first.
package rotation

import (
	"math"
	"sort"

	apperrors "contextual-pipeline/internal/common/errors"
	"contextual-pipeline/internal/models"
)

// Selection is the outcome of one rotation pass.
type Selection struct {
	Keywords []models.Keyword
	Mix      models.RotationMix
}

// Selector allocates a keyword budget across categories.
type Selector struct {
	weights map[models.KeywordCategory]float64
}

func NewSelector(categoryWeights map[string]float64) *Selector {
	weights := make(map[models.KeywordCategory]float64, len(categoryWeights))
	for name, w := range categoryWeights {
		if category, ok := models.ParseKeywordCategory(name); ok {
			weights[category] = w
		}
	}
	return &Selector{weights: weights}
}

// Select picks at most budget keywords from the pool. Inactive keywords are
// ignored; it is an error when none survive the filter. Only categories
// present in the pool receive slots; their weights are renormalized over the
// categories actually present. When a category has fewer keywords than its
// share, the surplus flows to categories that still have spare keywords.
func (s *Selector) Select(pool []models.Keyword, budget int) (*Selection, error) {
	if budget < 1 {
		return nil, apperrors.NewSelectionFailedError("budget must be positive")
	}

	buckets := map[models.KeywordCategory][]models.Keyword{}
	for _, k := range pool {
		if k.Status != models.KeywordActive {
			continue
		}
		buckets[k.Category] = append(buckets[k.Category], k)
	}
	if len(buckets) == 0 {
		return nil, apperrors.NewSelectionFailedError("no active keywords in pool")
	}

	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	if budget > total {
		budget = total
	}

	categories := orderedCategories(buckets)
	quotas := s.allocate(categories, buckets, budget)

	selection := &Selection{Mix: models.RotationMix{}}
	for _, category := range categories {
		n := quotas[category]
		if n == 0 {
			continue
		}
		bucket := buckets[category]
		sortBucket(bucket)
		selection.Keywords = append(selection.Keywords, bucket[:n]...)
		selection.Mix[category] = n
	}
	return selection, nil
}

// allocate computes per-category quotas: floor of the proportional share,
// then leftover slots by descending fractional remainder, then spillover
// from exhausted categories into ones with spare keywords.
func (s *Selector) allocate(categories []models.KeywordCategory, buckets map[models.KeywordCategory][]models.Keyword, budget int) map[models.KeywordCategory]int {
	sumWeights := 0.0
	for _, category := range categories {
		sumWeights += s.weights[category]
	}
	// No configured weights apply to the pool: fall back to equal shares.
	equalShares := sumWeights == 0

	type share struct {
		category models.KeywordCategory
		frac     float64
	}
	quotas := make(map[models.KeywordCategory]int, len(categories))
	shares := make([]share, 0, len(categories))
	assigned := 0

	for _, category := range categories {
		weight, denom := s.weights[category], sumWeights
		if equalShares {
			weight, denom = 1, float64(len(categories))
		}
		raw := float64(budget) * weight / denom
		base := int(math.Floor(raw))
		quotas[category] = base
		assigned += base
		shares = append(shares, share{category: category, frac: raw - float64(base)})
	}

	// categories is already in priority order, and SliceStable keeps that
	// order among equal remainders.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].frac > shares[j].frac
	})
	for i := 0; assigned < budget; i = (i + 1) % len(shares) {
		quotas[shares[i].category]++
		assigned++
	}

	// Clamp quotas to bucket sizes and hand the surplus to categories that
	// still have unselected keywords, in priority order.
	surplus := 0
	for _, category := range categories {
		if size := len(buckets[category]); quotas[category] > size {
			surplus += quotas[category] - size
			quotas[category] = size
		}
	}
	for surplus > 0 {
		progressed := false
		for _, category := range categories {
			if surplus == 0 {
				break
			}
			if quotas[category] < len(buckets[category]) {
				quotas[category]++
				surplus--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return quotas
}

// orderedCategories returns the pool's categories in the fixed priority
// order, with any unlisted categories after, alphabetically.
func orderedCategories(buckets map[models.KeywordCategory][]models.Keyword) []models.KeywordCategory {
	seen := map[models.KeywordCategory]bool{}
	var out []models.KeywordCategory
	for _, category := range models.KeywordCategoryPriority {
		if _, ok := buckets[category]; ok {
			out = append(out, category)
			seen[category] = true
		}
	}

	var rest []models.KeywordCategory
	for category := range buckets {
		if !seen[category] {
			rest = append(rest, category)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// sortBucket orders a category's keywords so the least-served come first:
// fewest lifetime results, then least recently fetched (never-fetched
// first), then highest relevance. Keyword text breaks remaining ties so
// the order is deterministic.
func sortBucket(bucket []models.Keyword) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := &bucket[i], &bucket[j]
		if a.TotalResults != b.TotalResults {
			return a.TotalResults < b.TotalResults
		}
		af, bf := a.LastFetchedOrZero(), b.LastFetchedOrZero()
		if !af.Equal(bf) {
			return af.Before(bf)
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.Text < b.Text
	})
}
