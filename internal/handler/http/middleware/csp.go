// Package middleware holds HTTP middleware that depends on request routing
// details: security headers by path and client IP extraction.
package middleware

import (
	"net/http"
	"strings"

	"catchup-news/pkg/security/csp"
)

// CSPMiddlewareConfig selects a Content-Security-Policy per path prefix.
type CSPMiddlewareConfig struct {
	// Enabled controls whether CSP headers are applied. Default: true
	Enabled bool

	// DefaultPolicy applies when no PathPolicies prefix matches.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies; the longest match wins.
	// Example: {"/swagger/": csp.SwaggerUIPolicy()}
	PathPolicies map[string]*csp.CSPBuilder

	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	ReportOnly bool
}

type builtPolicy struct {
	header string
	value  string
}

// CSPMiddleware applies security headers. Policies are rendered once at
// construction, so serving requests never touches a builder.
type CSPMiddleware struct {
	enabled  bool
	fallback *builtPolicy
	prefixes []string
	byPrefix map[string]builtPolicy
}

// NewCSPMiddleware renders the configured policies.
//
// Example:
//
//	cspMiddleware := NewCSPMiddleware(CSPMiddlewareConfig{
//	    Enabled:       true,
//	    DefaultPolicy: csp.StrictPolicy(),
//	    PathPolicies:  map[string]*csp.CSPBuilder{"/swagger/": csp.SwaggerUIPolicy()},
//	})
//	handler = cspMiddleware.Middleware()(handler)
func NewCSPMiddleware(config CSPMiddlewareConfig) *CSPMiddleware {
	m := &CSPMiddleware{
		enabled:  config.Enabled,
		byPrefix: make(map[string]builtPolicy, len(config.PathPolicies)),
	}
	render := func(b *csp.CSPBuilder) (builtPolicy, bool) {
		value := b.Build()
		if value == "" {
			return builtPolicy{}, false
		}
		header := csp.HeaderName
		if config.ReportOnly {
			header = csp.ReportOnlyHeaderName
		}
		return builtPolicy{header: header, value: value}, true
	}

	if config.DefaultPolicy != nil {
		if p, ok := render(config.DefaultPolicy); ok {
			m.fallback = &p
		}
	}
	for prefix, b := range config.PathPolicies {
		if b == nil {
			continue
		}
		if p, ok := render(b); ok {
			m.byPrefix[prefix] = p
			m.prefixes = append(m.prefixes, prefix)
		}
	}
	return m
}

// Middleware sets X-Content-Type-Options, Referrer-Policy and the CSP
// selected for the request path.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "no-referrer")

			if m.enabled {
				if p := m.selectPolicy(r.URL.Path); p != nil {
					h.Set(p.header, p.value)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// selectPolicy returns the policy of the longest matching prefix, else the default.
func (m *CSPMiddleware) selectPolicy(path string) *builtPolicy {
	longest := ""
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest = prefix
		}
	}
	if longest != "" {
		p := m.byPrefix[longest]
		return &p
	}
	return m.fallback
}
