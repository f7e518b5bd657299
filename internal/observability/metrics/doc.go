// Package metrics provides the Prometheus collectors for the news pipeline and
// the image relay.
//
// HTTP request metrics live with the HTTP middleware; this package only holds
// domain metrics: feed fetch outcomes and latency, parsed item counts,
// per-code warnings and relay outcomes.
//
// Example usage:
//
//	start := time.Now()
//	// ... fetch the feed ...
//	metrics.RecordFeedFetch(metrics.OutcomeSuccess, time.Since(start))
package metrics
