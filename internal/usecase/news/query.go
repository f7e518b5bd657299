package news

import (
	"net/url"
	"strings"

	"catchup-news/internal/common/pagination"
	"catchup-news/internal/domain/entity"
)

// QueryResult is one page of filtered articles.
type QueryResult struct {
	Articles []entity.Article
	Total    int // matches before pagination
	Page     int
	Limit    int
}

// ParseNewsQuery builds a NewsQuery from request parameters
// (id, section, source, q, page, limit). It never fails; garbage
// pagination values fall back to cfg defaults and limit is clamped.
// source is a comma-separated list of source ids.
func ParseNewsQuery(values url.Values, cfg pagination.Config) entity.NewsQuery {
	params := pagination.ParseQueryParams(values, cfg)
	q := entity.NewsQuery{
		ID:          param(values, "id"),
		Section:     param(values, "section"),
		SearchQuery: param(values, "q"),
		Page:        params.Page,
		Limit:       params.Limit,
	}
	for _, raw := range values["source"] {
		q.SourceIDs = append(q.SourceIDs, strings.Split(raw, ",")...)
	}
	return q.Normalized()
}

func param(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	v := values.Get(key)
	return &v
}

// Match returns the articles satisfying every predicate of q, in input order.
// Pagination fields of q are ignored.
func Match(articles []entity.Article, q entity.NewsQuery) []entity.Article {
	q = q.Normalized()

	var sources map[string]struct{}
	if len(q.SourceIDs) > 0 {
		sources = make(map[string]struct{}, len(q.SourceIDs))
		for _, id := range q.SourceIDs {
			sources[id] = struct{}{}
		}
	}
	var needle string
	if q.SearchQuery != nil {
		needle = strings.ToLower(*q.SearchQuery)
	}

	out := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if q.ID != nil && a.ID != *q.ID {
			continue
		}
		if q.Section != nil && a.SectionSlug != *q.Section {
			continue
		}
		if sources != nil {
			if _, ok := sources[a.SourceID]; !ok {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(a.Title+" "+a.Summary), needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Filter applies q to articles and returns the requested page.
// Total counts every match before the page window is cut.
func Filter(articles []entity.Article, q entity.NewsQuery) QueryResult {
	q = q.Normalized()
	matched := Match(articles, q)
	start, end := pagination.Window(len(matched), q.Page, q.Limit)
	return QueryResult{
		Articles: matched[start:end],
		Total:    len(matched),
		Page:     q.Page,
		Limit:    q.Limit,
	}
}
