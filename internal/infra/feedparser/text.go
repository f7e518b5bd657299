package feedparser

import (
	"bytes"
	"regexp"
	"strings"

	ext "github.com/mmcdole/gofeed/extensions"
)

var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

// xmlEntities are the entities decoded inside CDATA sections. Text outside
// CDATA is decoded by the XML parser itself.
var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// decodeCDATA decodes the XML entities inside every CDATA section of doc,
// leaving the sections in place. gofeed returns CDATA content verbatim, so
// every extracted value ends up decoded exactly once. A section whose decoded
// form would contain the "]]>" terminator is left alone.
func decodeCDATA(doc []byte) []byte {
	return cdataPattern.ReplaceAllFunc(doc, func(sec []byte) []byte {
		inner := sec[len("<![CDATA[") : len(sec)-len("]]>")]
		if !bytes.Contains(inner, []byte("&")) {
			return sec
		}
		decoded := xmlEntities.Replace(string(inner))
		if strings.Contains(decoded, "]]>") {
			return sec
		}
		return []byte("<![CDATA[" + decoded + "]]>")
	})
}

// cleanText applies the text rules every extracted value goes through:
// unwrap any CDATA markers left in the value and trim.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(cdataPattern.ReplaceAllString(s, "$1"))
}

// firstNonEmpty returns the first candidate that is non-empty after cleaning.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if v := cleanText(c); v != "" {
			return v
		}
	}
	return ""
}

// extValue returns the first non-empty value of prefix:name.
func extValue(exts ext.Extensions, prefix, name string) string {
	for _, e := range exts[prefix][name] {
		if v := cleanText(e.Value); v != "" {
			return v
		}
	}
	return ""
}
