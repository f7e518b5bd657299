package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed pipeline metrics
var (
	// FeedFetchTotal counts feed fetches by outcome (success, failure, timeout)
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_total",
			Help: "Total number of feed fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// FeedFetchDuration measures time to fetch one feed URL
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch a feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"outcome"},
	)

	// FeedFetchSize measures fetched feed body size in bytes
	FeedFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "feed_fetch_size_bytes",
			Help: "Fetched feed body size in bytes",
			Buckets: []float64{
				1024, 4096, 16384, 65536, 262144,
				1048576, 4194304, 10485760, // up to 10MB
			},
		},
	)

	// FeedItemsParsed counts raw items extracted per source
	FeedItemsParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_parsed_total",
			Help: "Total number of feed items extracted by the parser",
		},
		[]string{"source_id"},
	)

	// PipelineWarnings counts warnings returned to clients by code
	PipelineWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_pipeline_warnings_total",
			Help: "Total number of per-source warnings by code",
		},
		[]string{"code"},
	)

	// PipelineDuration measures a full catalog → dedupe run
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "news_pipeline_duration_seconds",
			Help:    "Time taken to aggregate all feeds for one request",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	// ArticlesAggregated tracks the article count of the most recent run
	ArticlesAggregated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_articles_aggregated",
			Help: "Number of deduplicated articles produced by the last pipeline run",
		},
	)
)

// Image relay metrics
var (
	// ImageRelayTotal counts relay requests by outcome
	ImageRelayTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_relay_requests_total",
			Help: "Total number of image relay requests by outcome",
		},
		[]string{"outcome"}, // success, invalid, blocked, too_large, not_image, upstream_error, timeout, aborted, rate_limited
	)

	// ImageRelayBytes counts bytes streamed to clients
	ImageRelayBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_relay_bytes_total",
			Help: "Total number of image bytes relayed to clients",
		},
	)
)
