// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// HeaderName and ReportOnlyHeaderName are the two CSP response headers.
const (
	HeaderName           = "Content-Security-Policy"
	ReportOnlyHeaderName = "Content-Security-Policy-Report-Only"
)

// directiveOrder fixes the order of directives in the built header.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"sandbox",
	"report-uri",
}

// CSPBuilder provides a fluent interface for constructing Content-Security-Policy headers.
//
// Example:
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'none'").
//	    ImgSrc("'self'").
//	    Sandbox().
//	    Build()
//	// "default-src 'none'; img-src 'self'; sandbox"
//
// CSPBuilder is not safe for concurrent mutation; build the header value once
// and share the string.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder creates an empty builder.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	if len(sources) > 0 {
		b.directives[directive] = sources
	}
	return b
}

// DefaultSrc sets the fallback for every fetch directive not set explicitly.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder { return b.set("style-src", sources) }

// ImgSrc sets img-src.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder { return b.set("img-src", sources) }

// FontSrc sets font-src.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder { return b.set("font-src", sources) }

// ConnectSrc sets connect-src.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors ("'none'" prevents framing entirely).
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets form-action.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder { return b.set("form-action", sources) }

// BaseURI sets base-uri.
func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder { return b.set("object-src", sources) }

// Sandbox adds the sandbox directive. With no flags every sandbox
// restriction applies; flags such as "allow-scripts" lift individual ones.
func (b *CSPBuilder) Sandbox(flags ...string) *CSPBuilder {
	b.directives["sandbox"] = append([]string{}, flags...)
	return b
}

// ReportURI sets report-uri; an empty uri is ignored.
func (b *CSPBuilder) ReportURI(uri string) *CSPBuilder {
	if uri == "" {
		return b
	}
	return b.set("report-uri", []string{uri})
}

// ReportOnly switches the builder to report-only mode, see HeaderKey.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Build renders the header value with directives in a fixed order.
func (b *CSPBuilder) Build() string {
	var parts []string
	for _, directive := range directiveOrder {
		sources, ok := b.directives[directive]
		if !ok {
			continue
		}
		if len(sources) == 0 {
			parts = append(parts, directive)
			continue
		}
		parts = append(parts, directive+" "+strings.Join(sources, " "))
	}
	return strings.Join(parts, "; ")
}

// HeaderKey returns the header the built value belongs in.
func (b *CSPBuilder) HeaderKey() string {
	if b.reportOnly {
		return ReportOnlyHeaderName
	}
	return HeaderName
}

// SwaggerUIPolicy allows what the bundled Swagger UI needs: inline scripts
// and styles, data: images and fonts, and blob: loading of the API document.
func SwaggerUIPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:").
		FontSrc("'self'", "data:").
		ConnectSrc("'self'", "blob:").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy is for JSON API responses, which never render as documents.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}

// ImageRelayPolicy is sent with relayed upstream bytes. Should a hostile
// upstream slip a document past the content-type check, the sandbox keeps it
// from running script or reaching the API's origin.
func ImageRelayPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		ImgSrc("'self'").
		Sandbox()
}
