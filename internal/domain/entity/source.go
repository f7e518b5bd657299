package entity

import (
	"fmt"
	"strings"
)

// Source represents a publisher in the static source catalog.
// A source exposes one feed per section; several sections may share a feed URL.
type Source struct {
	ID       string
	Name     string
	BaseURL  string
	Sections []Section
}

// Section maps a site section to the feed that lists its articles.
type Section struct {
	Slug    string
	FeedURL string
}

// SourceFeedTarget is one (source, section) pairing pointing at a specific feed URL.
type SourceFeedTarget struct {
	SourceID      string
	SourceName    string
	SourceBaseURL string
	FeedURL       string
	SectionSlug   string
}

// Validate validates the Source entity fields.
// Sections are validated individually by the catalog loader, so a source with one broken
// section still contributes its valid ones.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if base := strings.TrimSpace(s.BaseURL); base != "" {
		if err := ValidateURL(base); err != nil {
			return fmt.Errorf("source %s: %w", s.ID, err)
		}
	}
	if len(s.Sections) == 0 {
		return &ValidationError{Field: "sections", Message: "at least one section is required"}
	}
	return nil
}

// Validate checks that the section has a slug and a fetchable feed URL.
func (sec Section) Validate() error {
	if strings.TrimSpace(sec.Slug) == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	return ValidateURL(strings.TrimSpace(sec.FeedURL))
}

// Target builds the feed target for one of the source's sections.
func (s *Source) Target(sec Section) SourceFeedTarget {
	return SourceFeedTarget{
		SourceID:      strings.TrimSpace(s.ID),
		SourceName:    strings.TrimSpace(s.Name),
		SourceBaseURL: strings.TrimSpace(s.BaseURL),
		FeedURL:       strings.TrimSpace(sec.FeedURL),
		SectionSlug:   strings.TrimSpace(sec.Slug),
	}
}
