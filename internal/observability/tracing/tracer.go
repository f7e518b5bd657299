package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "catchup-news"

// Tracer returns the application tracer from the current global provider, so
// a provider installed after package init (by InitTracer or a test) is used.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Start opens an internal span named name carrying attrs.
//
//	ctx, span := tracing.Start(ctx, "fetcher.fetch", attribute.String("feed.url", u))
//	defer span.End()
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
