package sitemap

import (
	"math/rand/v2"
	"slices"
)

// Sample returns up to limit URLs. When there are more than limit, it picks
// limit distinct positions uniformly at random without replacement; the result
// is not in document order. When there are limit or fewer, all URLs are
// returned in their original order. limit <= 0 means no bound. A nil rng uses
// the global source.
func Sample(urls []string, limit int, rng *rand.Rand) []string {
	if limit <= 0 || len(urls) <= limit {
		return slices.Clone(urls)
	}
	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}
	picked := make([]string, 0, limit)
	for _, idx := range perm(len(urls))[:limit] {
		picked = append(picked, urls[idx])
	}
	return picked
}
