package entity

import "strings"

// Query bounds shared by every listing endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// NewsQuery describes the caller's filter and page request.
// Nil or empty filters match everything.
type NewsQuery struct {
	ID          *string
	Section     *string
	SourceIDs   []string
	SearchQuery *string
	Page        int
	Limit       int
}

// Normalized returns a copy with blank filters removed and page/limit clamped
// to safe bounds. Invalid values fall back to defaults instead of failing.
func (q NewsQuery) Normalized() NewsQuery {
	out := NewsQuery{
		ID:          trimmedOrNil(q.ID),
		Section:     trimmedOrNil(q.Section),
		SearchQuery: trimmedOrNil(q.SearchQuery),
		Page:        q.Page,
		Limit:       q.Limit,
	}
	for _, id := range q.SourceIDs {
		if id = strings.TrimSpace(id); id != "" {
			out.SourceIDs = append(out.SourceIDs, id)
		}
	}
	if out.Page < 1 {
		out.Page = DefaultPage
	}
	if out.Limit < 1 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(strings.TrimSpace(*s))
}
