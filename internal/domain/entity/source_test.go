package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{
			name: "valid source",
			source: Source{
				ID: "verge", Name: "The Verge", BaseURL: "https://www.theverge.com",
				Sections: []Section{{Slug: "tech", FeedURL: "https://www.theverge.com/rss/index.xml"}},
			},
		},
		{
			name:    "missing id",
			source:  Source{Name: "x", Sections: []Section{{Slug: "a", FeedURL: "https://x.test/feed"}}},
			wantErr: true,
		},
		{
			name:    "missing name",
			source:  Source{ID: "x", Sections: []Section{{Slug: "a", FeedURL: "https://x.test/feed"}}},
			wantErr: true,
		},
		{
			name:    "bad base url",
			source:  Source{ID: "x", Name: "x", BaseURL: "ftp://x.test", Sections: []Section{{Slug: "a", FeedURL: "https://x.test/feed"}}},
			wantErr: true,
		},
		{
			name:    "no sections",
			source:  Source{ID: "x", Name: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRecord))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSource_Target(t *testing.T) {
	s := Source{ID: " verge ", Name: "The Verge", BaseURL: "https://www.theverge.com"}
	got := s.Target(Section{Slug: " tech ", FeedURL: " https://www.theverge.com/rss "})

	assert.Equal(t, SourceFeedTarget{
		SourceID:      "verge",
		SourceName:    "The Verge",
		SourceBaseURL: "https://www.theverge.com",
		FeedURL:       "https://www.theverge.com/rss",
		SectionSlug:   "tech",
	}, got)
}

func TestSection_Validate(t *testing.T) {
	assert.NoError(t, Section{Slug: "a", FeedURL: "https://x.test/feed"}.Validate())
	assert.Error(t, Section{Slug: "", FeedURL: "https://x.test/feed"}.Validate())
	assert.Error(t, Section{Slug: "a", FeedURL: "javascript:alert(1)"}.Validate())
}
