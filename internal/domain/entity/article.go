// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Source and Warning, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// Article represents a normalized news article.
// Title is never empty; items without a usable title are dropped during normalization.
// ID is derived from the content so re-fetching the same story yields the same ID.
type Article struct {
	ID           string
	Title        string
	Summary      string
	URL          string
	CanonicalURL *string // dedup key when present
	ImageURL     *string
	ThumbnailURL *string
	SourceID     string
	SourceName   string
	SectionSlug  string
	Author       *string
	PublishedAt  *time.Time // always UTC
}

// PublishedBefore reports whether a was published strictly before b.
// A nil PublishedAt is treated as the oldest possible value.
func (a Article) PublishedBefore(b Article) bool {
	switch {
	case a.PublishedAt == nil:
		return b.PublishedAt != nil
	case b.PublishedAt == nil:
		return false
	default:
		return a.PublishedAt.Before(*b.PublishedAt)
	}
}

// RawFeedItem is parser output before normalization.
// Every field is optional; an empty string means the feed did not provide it.
type RawFeedItem struct {
	Title        string
	Link         string
	Summary      string
	Author       string
	Published    string
	ImageURL     string
	ThumbnailURL string
}
