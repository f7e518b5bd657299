package curation

import (
	"slices"
	"time"

	"catchup-news/internal/domain/entity"
)

const (
	// MostReadSourceCap bounds how many ranked items one source may hold.
	MostReadSourceCap = 3
	// MostReadWindow is how long recency takes to decay to zero.
	MostReadWindow = 48 * time.Hour

	recencyWeight      = 0.7
	sourceRepeatWeight = 0.3
)

// RankMostRead orders items by 0.7*recency + 0.3*sourceRepeat.
//
// Recency falls linearly from 1 at now to 0 at MostReadWindow; undated or
// older items score 0 and future-dated ones 1. sourceRepeat normalizes how
// often the item's source appears in items between the least and most
// frequent source (0 when every source appears equally often). Ties break
// by publish time, undated last. At most MostReadSourceCap items per source
// survive; limit ≤ 0 returns every survivor.
func RankMostRead(items []entity.Article, now time.Time, limit int) []entity.Article {
	counts := make(map[string]int)
	for _, a := range items {
		counts[a.SourceID]++
	}
	minCount, maxCount := 0, 0
	first := true
	for _, c := range counts {
		if first || c < minCount {
			minCount = c
		}
		if first || c > maxCount {
			maxCount = c
		}
		first = false
	}

	type scored struct {
		article entity.Article
		score   float64
	}
	ranked := make([]scored, len(items))
	for i, a := range items {
		repeat := 0.0
		if maxCount > minCount {
			repeat = float64(counts[a.SourceID]-minCount) / float64(maxCount-minCount)
		}
		ranked[i] = scored{
			article: a,
			score:   recencyWeight*recencyScore(a.PublishedAt, now) + sourceRepeatWeight*repeat,
		}
	}

	slices.SortStableFunc(ranked, func(x, y scored) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		case y.article.PublishedBefore(x.article):
			return -1
		case x.article.PublishedBefore(y.article):
			return 1
		default:
			return 0
		}
	})

	perSource := make(map[string]int)
	out := make([]entity.Article, 0, len(ranked))
	for _, r := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		if perSource[r.article.SourceID] >= MostReadSourceCap {
			continue
		}
		perSource[r.article.SourceID]++
		out = append(out, r.article)
	}
	return out
}

func recencyScore(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return 0
	}
	age := now.Sub(*publishedAt)
	switch {
	case age <= 0:
		return 1
	case age >= MostReadWindow:
		return 0
	default:
		return 1 - float64(age)/float64(MostReadWindow)
	}
}
