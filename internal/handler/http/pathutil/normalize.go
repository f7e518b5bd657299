// Package pathutil maps request paths onto a bounded set of route labels for
// metrics and span names.
package pathutil

import (
	"regexp"
	"strings"
)

// OtherPath is the label for every path that is not a known route.
const OtherPath = "/other"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// knownPaths are served verbatim.
var knownPaths = map[string]struct{}{
	"/":                   {},
	"/api/news":           {},
	"/api/news/featured":  {},
	"/api/news/most-read": {},
	"/api/news/home":      {},
	"/api/image":          {},
	"/health":             {},
	"/ready":              {},
	"/live":               {},
	"/metrics":            {},
}

// pathPatterns collapse route families with open-ended suffixes.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/swagger(/.*)?$`), Template: "/swagger/*"},
}

// NormalizePath returns the route label for path. Query strings and a
// trailing slash are ignored; anything unrecognized becomes OtherPath so
// scanners probing random URLs cannot grow label cardinality.
//
// Examples:
//
//	NormalizePath("/api/news?page=2")      // "/api/news"
//	NormalizePath("/api/news/")            // "/api/news"
//	NormalizePath("/swagger/index.html")   // "/swagger/*"
//	NormalizePath("/wp-login.php")         // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return OtherPath
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(knownPaths) + len(pathPatterns) + 1
}
