package curation

import "catchup-news/internal/domain/entity"

const (
	// FeaturedLimit is the default size of the featured carousel.
	FeaturedLimit = 5
	// FeaturedSourceCap bounds how many featured items one source may hold.
	FeaturedSourceCap = 2
)

// SelectFeatured picks up to limit items with a real image.
//
// The first pass takes the newest item of each distinct section; the second
// fills the remaining slots by recency. Both passes respect the per-source
// cap. A non-positive limit means FeaturedLimit.
func SelectFeatured(items []entity.Article, limit int) []entity.Article {
	if limit <= 0 {
		limit = FeaturedLimit
	}

	candidates := make([]entity.Article, 0, len(items))
	for _, a := range items {
		if HasRealImage(a) {
			candidates = append(candidates, a)
		}
	}
	candidates = byRecency(candidates)

	t := newTally(limit)
	for _, a := range candidates {
		if len(t.picked) >= limit {
			break
		}
		if t.ids[a.ID] || t.sections[a.SectionSlug] > 0 || t.sources[a.SourceID] >= FeaturedSourceCap {
			continue
		}
		t.add(a)
	}
	for _, a := range candidates {
		if len(t.picked) >= limit {
			break
		}
		if t.ids[a.ID] || t.sources[a.SourceID] >= FeaturedSourceCap {
			continue
		}
		t.add(a)
	}
	return t.picked
}
