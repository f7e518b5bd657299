package news

import (
	"hash/fnv"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"

	"catchup-news/internal/domain/entity"
)

// isoMillis matches the fixed ISO-8601 form used inside fallback keys.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// summaryPolicy strips every tag; <script> and <style> lose their content too.
// A bluemonday policy is safe for concurrent use once built.
var summaryPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.SkipElementsContent("script", "style")
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Normalize turns a parsed item into an Article for target.
// It reports false when the trimmed title is empty; such items are dropped.
func Normalize(item entity.RawFeedItem, target entity.SourceFeedTarget) (*entity.Article, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, false
	}

	publishedAt := ParseDate(item.Published)
	canonical := CanonicalizeURL(item.Link)

	articleURL := target.SourceBaseURL
	if canonical != nil {
		articleURL = *canonical
	}

	return &entity.Article{
		ID:           StableArticleID(canonical, title, publishedAt),
		Title:        title,
		Summary:      SanitizeSummary(item.Summary),
		URL:          articleURL,
		CanonicalURL: canonical,
		ImageURL:     optional(item.ImageURL),
		ThumbnailURL: optional(item.ThumbnailURL),
		SourceID:     target.SourceID,
		SourceName:   target.SourceName,
		SectionSlug:  target.SectionSlug,
		Author:       optional(item.Author),
		PublishedAt:  publishedAt,
	}, true
}

// CanonicalizeURL returns the canonical form of raw: http or https only,
// lowercase scheme and host, default port removed, trailing slashes removed
// from the path ("/" kept for the root). Query and fragment are kept.
// Anything else yields nil.
func CanonicalizeURL(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !isDefaultPort(scheme, port) {
		host = strings.ToLower(u.Host)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	u.Scheme = scheme
	u.Host = host
	u.User = nil
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	if u.Path == "" {
		u.Path = "/"
	}

	s := u.String()
	return &s
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "http" && port == "80") || (scheme == "https" && port == "443")
}

// StableArticleID derives a deterministic id. With a canonical URL the id is
// "url-" + FNV-1a/32 of the URL; otherwise "fallback-" + FNV-1a/32 of the
// lowercased title, "|", and the ISO publish time or "no-date".
func StableArticleID(canonical *string, title string, publishedAt *time.Time) string {
	if canonical != nil {
		return "url-" + fnv32a(*canonical)
	}
	return "fallback-" + fnv32a(fallbackKey(title, publishedAt))
}

func fallbackKey(title string, publishedAt *time.Time) string {
	date := "no-date"
	if publishedAt != nil {
		date = publishedAt.UTC().Format(isoMillis)
	}
	return strings.ToLower(strings.TrimSpace(title)) + "|" + date
}

func fnv32a(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// SanitizeSummary reduces an HTML fragment to plain text: script and style
// blocks removed, tags stripped, entities decoded, whitespace collapsed.
func SanitizeSummary(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := html.UnescapeString(summaryPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// ParseDate parses a feed date leniently and returns it in UTC,
// or nil when the value is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
