package news_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"catchup-news/internal/common/pagination"
	"catchup-news/internal/domain/entity"
	"catchup-news/internal/usecase/news"
)

func catalogFixture() []entity.Article {
	return []entity.Article{
		{ID: "1", Title: "Go 1.25 released", Summary: "Compiler news", SourceID: "verge", SectionSlug: "tech"},
		{ID: "2", Title: "Election night", Summary: "Results are in", SourceID: "bbc", SectionSlug: "world"},
		{ID: "3", Title: "Rust and Go", Summary: "A comparison", SourceID: "ars", SectionSlug: "tech"},
		{ID: "4", Title: "Markets", Summary: "Stocks rally on GO signal", SourceID: "bbc", SectionSlug: "business"},
		{ID: "5", Title: "New phone", Summary: "Hands-on", SourceID: "verge", SectionSlug: "tech"},
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     entity.NewsQuery
		wantIDs   []string
		wantTotal int
	}{
		{name: "no predicates", query: entity.NewsQuery{}, wantIDs: []string{"1", "2", "3", "4", "5"}, wantTotal: 5},
		{name: "id", query: entity.NewsQuery{ID: ptr("3")}, wantIDs: []string{"3"}, wantTotal: 1},
		{name: "section", query: entity.NewsQuery{Section: ptr("tech")}, wantIDs: []string{"1", "3", "5"}, wantTotal: 3},
		{name: "sources", query: entity.NewsQuery{SourceIDs: []string{"bbc", "ars"}}, wantIDs: []string{"2", "3", "4"}, wantTotal: 3},
		{name: "search title and summary case-insensitive", query: entity.NewsQuery{SearchQuery: ptr("go")}, wantIDs: []string{"1", "3", "4"}, wantTotal: 3},
		{name: "predicates are ANDed", query: entity.NewsQuery{Section: ptr("tech"), SourceIDs: []string{"verge"}, SearchQuery: ptr("PHONE")}, wantIDs: []string{"5"}, wantTotal: 1},
		{name: "no match", query: entity.NewsQuery{Section: ptr("sport")}, wantIDs: []string{}, wantTotal: 0},
		{name: "blank search ignored", query: entity.NewsQuery{SearchQuery: ptr("   ")}, wantIDs: []string{"1", "2", "3", "4", "5"}, wantTotal: 5},
		{name: "second page", query: entity.NewsQuery{Page: 2, Limit: 2}, wantIDs: []string{"3", "4"}, wantTotal: 5},
		{name: "page past the end", query: entity.NewsQuery{Page: 9, Limit: 2}, wantIDs: []string{}, wantTotal: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := news.Filter(catalogFixture(), tt.query)
			if diff := cmp.Diff(tt.wantIDs, ids(got.Articles)); diff != "" {
				t.Errorf("Filter() ids mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestFilter_NormalizesPagination(t *testing.T) {
	t.Parallel()

	got := news.Filter(catalogFixture(), entity.NewsQuery{Page: -3, Limit: 500})
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 100, got.Limit)
	assert.Len(t, got.Articles, 5)
}

func TestFilter_LargeCatalogPaging(t *testing.T) {
	t.Parallel()

	articles := make([]entity.Article, 45)
	for i := range articles {
		articles[i] = entity.Article{ID: fmt.Sprint(i), Title: "t"}
	}

	got := news.Filter(articles, entity.NewsQuery{Page: 3, Limit: 20})
	assert.Equal(t, 45, got.Total)
	assert.Len(t, got.Articles, 5)
	assert.Equal(t, "40", got.Articles[0].ID)
}

func TestParseNewsQuery(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig()

	tests := []struct {
		name  string
		query string
		want  entity.NewsQuery
	}{
		{
			name:  "empty",
			query: "",
			want:  entity.NewsQuery{Page: 1, Limit: 20},
		},
		{
			name:  "all parameters",
			query: "id=url-1&section=tech&source=verge,bbc&q=go&page=2&limit=10",
			want: entity.NewsQuery{
				ID: ptr("url-1"), Section: ptr("tech"), SourceIDs: []string{"verge", "bbc"},
				SearchQuery: ptr("go"), Page: 2, Limit: 10,
			},
		},
		{
			name:  "garbage pagination falls back",
			query: "page=zero&limit=-5",
			want:  entity.NewsQuery{Page: 1, Limit: 20},
		},
		{
			name:  "limit clamped",
			query: "limit=999",
			want:  entity.NewsQuery{Page: 1, Limit: 100},
		},
		{
			name:  "blank values and empty source entries dropped",
			query: "section=%20&source=,verge,,&source=ars",
			want:  entity.NewsQuery{SourceIDs: []string{"verge", "ars"}, Page: 1, Limit: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) error = %v", tt.query, err)
			}
			got := news.ParseNewsQuery(values, cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseNewsQuery(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}
