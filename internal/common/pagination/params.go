package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParseQueryParams reads page and limit from a query string.
// It never fails: missing or unparseable values fall back to the configured
// defaults and an oversized limit is clamped to config.MaxLimit.
//
// Query parameters:
//   - page: Page number (positive integer)
//   - limit: Items per page (1..config.MaxLimit)
func ParseQueryParams(values url.Values, config Config) Params {
	params := Params{
		Page:  parsePositive(values.Get("page")),
		Limit: parsePositive(values.Get("limit")),
	}
	return params.Resolve(config)
}

// Resolve fills unset fields from config and caps Limit at config.MaxLimit.
// Non-positive values count as unset.
func (p Params) Resolve(config Config) Params {
	p.Page = max(p.Page, 0)
	if p.Page == 0 {
		p.Page = config.DefaultPage
	}
	switch {
	case p.Limit <= 0:
		p.Limit = config.DefaultLimit
	case p.Limit > config.MaxLimit:
		p.Limit = config.MaxLimit
	}
	return p
}

// parsePositive returns 0 for anything that is not a positive integer.
func parsePositive(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
