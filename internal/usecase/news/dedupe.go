package news

import (
	"slices"

	"catchup-news/internal/domain/entity"
)

// DedupeAndSort collapses duplicate stories and orders the result newest first.
//
// Articles are grouped by canonical URL, or by lowercased title plus publish
// time when no canonical URL exists. Within a group the strictly newer article
// wins; an undated article never beats a dated one and ties keep the first
// seen. Undated articles sort last. Running it on its own output is a no-op.
func DedupeAndSort(articles []entity.Article) []entity.Article {
	index := make(map[string]int, len(articles))
	out := make([]entity.Article, 0, len(articles))

	for _, a := range articles {
		key := dedupeKey(a)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, a)
			continue
		}
		if out[i].PublishedBefore(a) {
			out[i] = a
		}
	}

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

func dedupeKey(a entity.Article) string {
	if a.CanonicalURL != nil {
		return "url:" + *a.CanonicalURL
	}
	return "key:" + fallbackKey(a.Title, a.PublishedAt)
}
