package feedparser

import (
	"strings"

	"github.com/mmcdole/gofeed/atom"

	"catchup-news/internal/domain/entity"
)

func atomItems(feed *atom.Feed, baseURL string) []entity.RawFeedItem {
	items := make([]entity.RawFeedItem, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e == nil {
			continue
		}
		items = append(items, atomItem(e, baseURL))
	}
	return items
}

// atomItem applies the Atom alias order:
// link rel=alternate → first href, summary → content,
// first author name, published → updated.
func atomItem(e *atom.Entry, baseURL string) entity.RawFeedItem {
	link := atomLink(e.Links)
	if abs := resolveRef(link, baseURL); abs != "" {
		link = abs
	}

	var content string
	if e.Content != nil {
		content = e.Content.Value
	}
	var author string
	if len(e.Authors) > 0 && e.Authors[0] != nil {
		author = e.Authors[0].Name
	}

	raw := entity.RawFeedItem{
		Title:     cleanText(e.Title),
		Link:      link,
		Summary:   firstNonEmpty(e.Summary, content),
		Author:    cleanText(author),
		Published: firstNonEmpty(e.Published, e.Updated),
	}

	var enclosures []enclosure
	for _, l := range e.Links {
		if l != nil && strings.EqualFold(l.Rel, "enclosure") {
			enclosures = append(enclosures, enclosure{url: l.Href, mimeType: l.Type})
		}
	}

	raw.ImageURL, raw.ThumbnailURL = pickImages(imageSources{
		extensions: e.Extensions,
		enclosures: enclosures,
		html:       []string{e.Summary, content},
		link:       link,
		baseURL:    baseURL,
	})
	return raw
}

// atomLink prefers rel="alternate" (an absent rel means alternate) and
// falls back to the first link with an href.
func atomLink(links []*atom.Link) string {
	for _, l := range links {
		if l == nil || l.Href == "" {
			continue
		}
		if l.Rel == "" || strings.EqualFold(l.Rel, "alternate") {
			return cleanText(l.Href)
		}
	}
	for _, l := range links {
		if l != nil && l.Href != "" {
			return cleanText(l.Href)
		}
	}
	return ""
}
