// Package tracing provides OpenTelemetry tracing integration.
//
// InitTracer installs an SDK tracer provider (exporting over OTLP/HTTP when
// enabled); Middleware opens a server span per request and returns the trace
// ID in the X-Trace-Id header. Pipeline stages open child spans with Start.
//
// Example usage:
//
//	import "catchup-news/internal/observability/tracing"
//
//	func main() {
//	    shutdown, err := tracing.InitTracer(ctx, tracing.Config{Enabled: true, ServiceName: "catchup-news"})
//	    defer shutdown(context.Background())
//	}
//
//	func fetchFeed(ctx context.Context) {
//	    ctx, span := tracing.Start(ctx, "fetcher.fetch")
//	    defer span.End()
//	}
package tracing
