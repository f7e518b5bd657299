package metrics

import (
	"time"
)

// Fetch outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// RecordFeedFetch records the outcome and latency of one feed URL fetch.
func RecordFeedFetch(outcome string, duration time.Duration) {
	FeedFetchTotal.WithLabelValues(outcome).Inc()
	FeedFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordFeedSize records the size of a fetched feed body.
func RecordFeedSize(bytes int) {
	FeedFetchSize.Observe(float64(bytes))
}

// RecordItemsParsed records how many raw items a source's feed produced.
func RecordItemsParsed(sourceID string, count int) {
	if count <= 0 {
		return
	}
	FeedItemsParsed.WithLabelValues(sourceID).Add(float64(count))
}

// RecordWarning records one warning handed back to a client.
func RecordWarning(code string) {
	PipelineWarnings.WithLabelValues(code).Inc()
}

// RecordPipelineRun records a completed aggregation run.
func RecordPipelineRun(duration time.Duration, articles int) {
	PipelineDuration.Observe(duration.Seconds())
	ArticlesAggregated.Set(float64(articles))
}

// RecordImageRelay records the outcome of an image relay request and the bytes sent.
func RecordImageRelay(outcome string, bytes int64) {
	ImageRelayTotal.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		ImageRelayBytes.Add(float64(bytes))
	}
}
