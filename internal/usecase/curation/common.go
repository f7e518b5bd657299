package curation

import (
	"slices"
	"strings"

	"catchup-news/internal/domain/entity"
)

// placeholderMarkers identify stand-in artwork rather than a real image.
var placeholderMarkers = []string{"placeholder", "no-image", "noimage", "default-image"}

// HasRealImage reports whether a carries an image worth featuring.
func HasRealImage(a entity.Article) bool {
	if a.ImageURL == nil {
		return false
	}
	u := strings.ToLower(strings.TrimSpace(*a.ImageURL))
	if u == "" || strings.HasPrefix(u, "data:") {
		return false
	}
	for _, m := range placeholderMarkers {
		if strings.Contains(u, m) {
			return false
		}
	}
	return true
}

// byRecency returns a copy of items ordered newest first, undated last.
// Equal timestamps keep input order.
func byRecency(items []entity.Article) []entity.Article {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b entity.Article) int {
		switch {
		case b.PublishedBefore(a):
			return -1
		case a.PublishedBefore(b):
			return 1
		default:
			return 0
		}
	})
	return out
}

// tally tracks what has been picked so far.
type tally struct {
	ids      map[string]bool
	sources  map[string]int
	sections map[string]int
	picked   []entity.Article
}

func newTally(capacity int) *tally {
	return &tally{
		ids:      make(map[string]bool, capacity),
		sources:  make(map[string]int),
		sections: make(map[string]int),
		picked:   make([]entity.Article, 0, capacity),
	}
}

func (t *tally) add(a entity.Article) {
	t.ids[a.ID] = true
	t.sources[a.SourceID]++
	t.sections[a.SectionSlug]++
	t.picked = append(t.picked, a)
}
