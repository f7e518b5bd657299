package feedparser

import (
	"strings"

	"github.com/mmcdole/gofeed/rss"

	"catchup-news/internal/domain/entity"
)

func rssItems(feed *rss.Feed, baseURL string) []entity.RawFeedItem {
	items := make([]entity.RawFeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		items = append(items, rssItem(it, baseURL))
	}
	return items
}

// rssItem applies the RSS/RDF alias order:
// title → dc:title, link → permalink guid, description → content:encoded,
// author → dc:creator, pubDate → dc:date.
func rssItem(it *rss.Item, baseURL string) entity.RawFeedItem {
	link := firstNonEmpty(it.Link, rssGUIDLink(it.GUID))
	if abs := resolveRef(link, baseURL); abs != "" {
		link = abs
	}

	raw := entity.RawFeedItem{
		Title:     firstNonEmpty(it.Title, extValue(it.Extensions, "dc", "title")),
		Link:      link,
		Summary:   firstNonEmpty(it.Description, it.Content),
		Author:    firstNonEmpty(it.Author, extValue(it.Extensions, "dc", "creator")),
		Published: firstNonEmpty(it.PubDate, extValue(it.Extensions, "dc", "date")),
	}

	var enclosures []enclosure
	if it.Enclosure != nil {
		enclosures = append(enclosures, enclosure{url: it.Enclosure.URL, mimeType: it.Enclosure.Type})
	}

	raw.ImageURL, raw.ThumbnailURL = pickImages(imageSources{
		extensions: it.Extensions,
		enclosures: enclosures,
		html:       []string{it.Description, it.Content},
		link:       link,
		baseURL:    baseURL,
	})
	return raw
}

// rssGUIDLink returns the guid when it can stand in for a link: either
// flagged as a permalink or shaped like an http(s) URL.
func rssGUIDLink(g *rss.GUID) string {
	if g == nil || strings.EqualFold(strings.TrimSpace(g.IsPermalink), "false") {
		return ""
	}
	v := cleanText(g.Value)
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return v
	}
	return ""
}
