package feedparser

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	ext "github.com/mmcdole/gofeed/extensions"
)

type enclosure struct {
	url      string
	mimeType string
}

// imageSources gathers everything an item offers as an image candidate.
type imageSources struct {
	extensions ext.Extensions
	enclosures []enclosure
	html       []string
	link       string
	baseURL    string
}

type mediaImage struct {
	url  string
	area int
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".bmp": true, ".svg": true,
}

var youTubePattern = regexp.MustCompile(
	`(?i)(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#\s"']*&)?v=|embed/|shorts/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`,
)

// pickImages returns the large and small image for an item.
//
// Large: largest-area image media:content → media:thumbnail → image enclosure →
// first inline <img> → YouTube thumbnail → none.
// Small: smallest image media:content when several are offered →
// media:thumbnail → the large image.
func pickImages(src imageSources) (large, small string) {
	bases := []string{src.link, src.baseURL}

	contents := mediaContents(src.extensions, bases)
	thumbnail := mediaThumbnail(src.extensions, bases)

	switch {
	case len(contents) > 0:
		large = largest(contents).url
	case thumbnail != "":
		large = thumbnail
	}
	if large == "" {
		large = enclosureImage(src.enclosures, bases)
	}
	if large == "" {
		large = inlineImage(src.html, bases)
	}
	if large == "" {
		large = youTubeThumbnail(append([]string{src.link}, src.html...))
	}

	switch {
	case len(contents) > 1:
		small = smallest(contents).url
	case thumbnail != "":
		small = thumbnail
	default:
		small = large
	}
	return large, small
}

// mediaContents collects image media:content elements, including those nested in media:group.
func mediaContents(exts ext.Extensions, bases []string) []mediaImage {
	media := exts["media"]
	if media == nil {
		return nil
	}
	nodes := append([]ext.Extension{}, media["content"]...)
	for _, g := range media["group"] {
		nodes = append(nodes, g.Children["content"]...)
	}

	var out []mediaImage
	for _, n := range nodes {
		u := resolveRef(n.Attrs["url"], bases...)
		if u == "" || !isImageMedia(n.Attrs["medium"], n.Attrs["type"], u) {
			continue
		}
		out = append(out, mediaImage{url: u, area: atoi(n.Attrs["width"]) * atoi(n.Attrs["height"])})
	}
	return out
}

func mediaThumbnail(exts ext.Extensions, bases []string) string {
	media := exts["media"]
	if media == nil {
		return ""
	}
	nodes := append([]ext.Extension{}, media["thumbnail"]...)
	for _, g := range media["group"] {
		nodes = append(nodes, g.Children["thumbnail"]...)
	}
	for _, n := range nodes {
		if u := resolveRef(n.Attrs["url"], bases...); u != "" {
			return u
		}
	}
	return ""
}

// largest keeps the first candidate on ties.
func largest(imgs []mediaImage) mediaImage {
	best := imgs[0]
	for _, img := range imgs[1:] {
		if img.area > best.area {
			best = img
		}
	}
	return best
}

// smallest prefers sized candidates; unsized ones only win when nothing is sized.
func smallest(imgs []mediaImage) mediaImage {
	best := imgs[0]
	for _, img := range imgs[1:] {
		if img.area > 0 && (best.area == 0 || img.area < best.area) {
			best = img
		}
	}
	return best
}

func enclosureImage(encs []enclosure, bases []string) string {
	for _, e := range encs {
		u := resolveRef(e.url, bases...)
		if u == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(e.mimeType), "image/") || (e.mimeType == "" && hasImageExtension(u)) {
			return u
		}
	}
	return ""
}

// inlineImage returns the first <img src> found in the given HTML fragments.
func inlineImage(fragments []string, bases []string) string {
	for _, frag := range fragments {
		if !strings.Contains(strings.ToLower(frag), "<img") {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(frag))
		if err != nil {
			continue
		}
		var found string
		doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			if u := resolveRef(src, bases...); u != "" {
				found = u
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func youTubeThumbnail(candidates []string) string {
	for _, c := range candidates {
		if m := youTubePattern.FindStringSubmatch(c); m != nil {
			return "https://i.ytimg.com/vi/" + m[1] + "/hqdefault.jpg"
		}
	}
	return ""
}

func isImageMedia(medium, mimeType, u string) bool {
	switch {
	case strings.EqualFold(medium, "image"):
		return true
	case medium != "":
		return false
	case strings.HasPrefix(strings.ToLower(mimeType), "image/"):
		return true
	case mimeType != "":
		return false
	default:
		return hasImageExtension(u)
	}
}

func hasImageExtension(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return imageExtensions[strings.ToLower(path.Ext(u.Path))]
}

// resolveRef resolves raw against the first usable base and returns it only
// when the result is an absolute http(s) URL.
func resolveRef(raw string, bases ...string) string {
	raw = cleanText(raw)
	if raw == "" || strings.HasPrefix(strings.ToLower(raw), "data:") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		if isHTTP(ref) {
			return ref.String()
		}
		return ""
	}
	for _, b := range bases {
		base, err := url.Parse(strings.TrimSpace(b))
		if err != nil || !base.IsAbs() || !isHTTP(base) {
			continue
		}
		return base.ResolveReference(ref).String()
	}
	return ""
}

func isHTTP(u *url.URL) bool {
	s := strings.ToLower(u.Scheme)
	return (s == "http" || s == "https") && u.Host != ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
