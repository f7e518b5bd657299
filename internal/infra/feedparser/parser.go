// Package feedparser turns raw RSS, RDF and Atom documents into entity.RawFeedItem values.
//
// Format detection sniffs the root element; extraction then uses gofeed's
// RSS and Atom parsers with explicit field-alias and image-priority rules
// so the output does not depend on the library's own translation defaults.
package feedparser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"

	"catchup-news/internal/domain/entity"
)

var (
	// ErrUnsupportedFormat indicates the body is empty or is neither RSS/RDF nor Atom.
	ErrUnsupportedFormat = errors.New("unsupported feed format")

	// ErrMalformedFeed indicates the root element was recognized but the document could not be parsed.
	ErrMalformedFeed = errors.New("malformed feed")
)

// Format is the detected document type.
type Format int

const (
	FormatUnknown Format = iota
	FormatRSS            // <rss> and RSS 1.0 <rdf:RDF>
	FormatAtom
)

func (f Format) String() string {
	switch f {
	case FormatRSS:
		return "rss"
	case FormatAtom:
		return "atom"
	default:
		return "unknown"
	}
}

// rootPattern finds the first feed root marker. Parse drops everything
// before it except the XML declaration, so leading comments or junk are
// tolerated while the declared encoding still applies.
var (
	rootPattern = regexp.MustCompile(`(?i)<(feed|rss|rdf:rdf)[\s>/]`)
	declPattern = regexp.MustCompile(`<\?xml\s[^>]*\?>`)
)

// DetectFormat sniffs the root element of body.
func DetectFormat(body []byte) Format {
	m := rootPattern.FindSubmatch(body)
	if m == nil {
		return FormatUnknown
	}
	if strings.EqualFold(string(m[1]), "feed") {
		return FormatAtom
	}
	return FormatRSS
}

// Parse extracts the items of a feed body fetched for target.
// It returns ErrUnsupportedFormat for empty or unrecognized bodies and
// ErrMalformedFeed when the recognized document cannot be read.
func Parse(body []byte, target entity.SourceFeedTarget) ([]entity.RawFeedItem, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnsupportedFormat)
	}

	format := DetectFormat(body)
	if loc := rootPattern.FindIndex(body); loc != nil {
		body = decodeCDATA(trimBeforeRoot(body, loc[0]))
	}

	switch format {
	case FormatAtom:
		feed, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: atom: %v", ErrMalformedFeed, err)
		}
		return atomItems(feed, target.SourceBaseURL), nil
	case FormatRSS:
		feed, err := (&rss.Parser{}).Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: rss: %v", ErrMalformedFeed, err)
		}
		return rssItems(feed, target.SourceBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: no <rss>, <rdf:RDF> or <feed> root", ErrUnsupportedFormat)
	}
}

func trimBeforeRoot(body []byte, root int) []byte {
	prefix := body[:root]
	decl := declPattern.Find(prefix)
	if decl == nil {
		return body[root:]
	}
	out := make([]byte, 0, len(decl)+1+len(body)-root)
	out = append(out, decl...)
	out = append(out, '\n')
	return append(out, body[root:]...)
}
