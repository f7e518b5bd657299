// Package observability groups the logging, metrics and tracing packages.
//
// Subpackages:
//   - logging: slog JSON logger with request-scoped context propagation
//   - metrics: Prometheus collectors for the feed pipeline and image relay
//   - tracing: OpenTelemetry tracer provider and HTTP server spans
//
// Example usage:
//
//	import (
//	    "catchup-news/internal/observability/logging"
//	    "catchup-news/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordWarning("source_timeout")
//	}
package observability
