package curation

import "catchup-news/internal/domain/entity"

const (
	// HomeMixedLimit is the default size of the home grid.
	HomeMixedLimit = 15
	// HomeSectionCap and HomeSourceCap bound the grid per section and source.
	HomeSectionCap = 2
	HomeSourceCap  = 2
	// HomeRowSize is the number of cards per rendered row.
	HomeRowSize = 3
)

// homePass is one relaxation step; zero means the dimension is uncapped.
type homePass struct {
	sectionCap int
	sourceCap  int
}

// homePasses relax from strict diversity to recency order. The source cap
// never exceeds HomeSourceCap, so the section-cap-only and recency-only steps
// both run under it and collapse into the last entry.
var homePasses = []homePass{
	{sectionCap: 1, sourceCap: 1},
	{sectionCap: HomeSectionCap, sourceCap: HomeSourceCap},
	{sectionCap: 0, sourceCap: HomeSourceCap},
}

// SelectHomeMixed picks up to limit items for the home grid and orders them
// so that each row of HomeRowSize mixes sections and sources.
// A non-positive limit means HomeMixedLimit.
func SelectHomeMixed(items []entity.Article, limit int) []entity.Article {
	if limit <= 0 {
		limit = HomeMixedLimit
	}

	candidates := byRecency(items)
	t := newTally(limit)
	for _, p := range homePasses {
		for _, a := range candidates {
			if len(t.picked) >= limit {
				break
			}
			if t.ids[a.ID] {
				continue
			}
			if p.sectionCap > 0 && t.sections[a.SectionSlug] >= p.sectionCap {
				continue
			}
			if p.sourceCap > 0 && t.sources[a.SourceID] >= p.sourceCap {
				continue
			}
			t.add(a)
		}
	}

	return rebalanceRows(byRecency(t.picked), HomeRowSize)
}

// rebalanceRows greedily orders items so every row favours unseen sections
// and sources. Each slot takes the best-scoring remaining item; ties go to
// the earliest one.
//
//	+3 section not yet in the current row
//	+2 source not yet in the current row
//	+1 section differs from the previous item
//	+1 source differs from the previous item
func rebalanceRows(items []entity.Article, rowSize int) []entity.Article {
	remaining := items
	out := make([]entity.Article, 0, len(items))

	for len(remaining) > 0 {
		row := out[len(out)-len(out)%rowSize:]
		var prev *entity.Article
		if len(out) > 0 {
			prev = &out[len(out)-1]
		}

		best, bestScore := 0, -1
		for i, a := range remaining {
			if s := rowScore(a, row, prev); s > bestScore {
				best, bestScore = i, s
			}
		}

		out = append(out, remaining[best])
		next := make([]entity.Article, 0, len(remaining)-1)
		next = append(next, remaining[:best]...)
		remaining = append(next, remaining[best+1:]...)
	}
	return out
}

func rowScore(a entity.Article, row []entity.Article, prev *entity.Article) int {
	sectionSeen, sourceSeen := false, false
	for _, r := range row {
		sectionSeen = sectionSeen || r.SectionSlug == a.SectionSlug
		sourceSeen = sourceSeen || r.SourceID == a.SourceID
	}

	score := 0
	if !sectionSeen {
		score += 3
	}
	if !sourceSeen {
		score += 2
	}
	if prev == nil || prev.SectionSlug != a.SectionSlug {
		score++
	}
	if prev == nil || prev.SourceID != a.SourceID {
		score++
	}
	return score
}
