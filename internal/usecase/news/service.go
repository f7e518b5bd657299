// Package news runs the request-scoped aggregation pipeline: catalog, fetch,
// parse, normalize, dedupe, and query filtering.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"catchup-news/internal/domain/entity"
	"catchup-news/internal/observability/logging"
	"catchup-news/internal/observability/metrics"
	"catchup-news/internal/observability/tracing"
)

// ErrCatalogUnavailable is returned when no feed targets could be resolved.
var ErrCatalogUnavailable = errors.New("source catalog unavailable")

// CatalogLoader resolves the feed targets for one pipeline run.
type CatalogLoader interface {
	Load(ctx context.Context) ([]entity.SourceFeedTarget, error)
}

// FeedFetcher retrieves feed bodies; per-feed failures come back as warnings.
type FeedFetcher interface {
	FetchAll(ctx context.Context, targets []entity.SourceFeedTarget, timeout time.Duration) entity.FetchResult
}

// ParseFunc extracts raw items from one feed body.
type ParseFunc func(body []byte, target entity.SourceFeedTarget) ([]entity.RawFeedItem, error)

// Result is the outcome of one pipeline run.
type Result struct {
	Articles []entity.Article // deduplicated, newest first
	Warnings []entity.Warning
}

// Service provides the news aggregation use cases.
type Service struct {
	catalog      CatalogLoader
	fetcher      FeedFetcher
	parse        ParseFunc
	fetchTimeout time.Duration
}

// NewService creates a news Service.
// fetchTimeout is the per-feed deadline handed to the fetcher; zero lets the
// fetcher use its configured default.
func NewService(catalog CatalogLoader, fetcher FeedFetcher, parse ParseFunc, fetchTimeout time.Duration) *Service {
	return &Service{
		catalog:      catalog,
		fetcher:      fetcher,
		parse:        parse,
		fetchTimeout: fetchTimeout,
	}
}

// Aggregate runs the full pipeline once. The only error it returns is a
// catalog failure; everything that goes wrong per source is a warning.
func (s *Service) Aggregate(ctx context.Context) (Result, error) {
	ctx, span := tracing.Start(ctx, "news.Aggregate")
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	targets, err := s.catalog.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	fetched := s.fetcher.FetchAll(ctx, targets, s.fetchTimeout)
	warnings := append([]entity.Warning(nil), fetched.Warnings...)

	outcomes := make([]parseOutcome, len(fetched.Successes))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, body := range fetched.Successes {
		eg.Go(func() error {
			outcomes[i] = s.parseBody(body)
			return nil
		})
	}
	_ = eg.Wait()

	var articles []entity.Article
	for _, o := range outcomes {
		articles = append(articles, o.articles...)
		warnings = append(warnings, o.warnings...)
	}
	articles = DedupeAndSort(articles)

	for _, w := range warnings {
		metrics.RecordWarning(string(w.Code))
	}
	duration := time.Since(start)
	metrics.RecordPipelineRun(duration, len(articles))
	span.SetAttributes(
		attribute.Int("news.targets", len(targets)),
		attribute.Int("news.articles", len(articles)),
		attribute.Int("news.warnings", len(warnings)),
	)

	logger.Info("news pipeline completed",
		slog.Int("targets", len(targets)),
		slog.Int("feeds_fetched", len(fetched.Successes)),
		slog.Int("articles", len(articles)),
		slog.Int("warnings", len(warnings)),
		slog.Duration("duration", duration))

	return Result{Articles: articles, Warnings: warnings}, nil
}

// Query runs the pipeline and returns one filtered page plus the run's warnings.
func (s *Service) Query(ctx context.Context, q entity.NewsQuery) (QueryResult, []entity.Warning, error) {
	res, err := s.Aggregate(ctx)
	if err != nil {
		return QueryResult{}, nil, err
	}
	return Filter(res.Articles, q), res.Warnings, nil
}

// TargetCount reports how many feed targets the catalog currently resolves.
func (s *Service) TargetCount(ctx context.Context) (int, error) {
	targets, err := s.catalog.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return len(targets), nil
}

type parseOutcome struct {
	articles []entity.Article
	warnings []entity.Warning
}

// parseBody parses one feed body for each target sharing it, so every
// section keeps its own mapping. A parse failure is reported once per source.
func (s *Service) parseBody(body entity.FeedBody) (out parseOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.warnings = append(out.warnings, entity.NewWarning(entity.WarningSourceParseFailed,
				fmt.Sprintf("unexpected parse failure: %v", r), "", body.FeedURL))
		}
	}()

	failed := make(map[string]bool)
	for _, target := range body.Targets {
		if failed[target.SourceID] {
			continue
		}
		items, err := s.parse(body.Body, target)
		if err != nil {
			failed[target.SourceID] = true
			out.warnings = append(out.warnings, entity.NewWarning(entity.WarningSourceParseFailed,
				fmt.Sprintf("%s: feed could not be parsed: %v", target.SourceName, err),
				target.SourceID, target.FeedURL))
			continue
		}

		skipped := 0
		for _, item := range items {
			article, ok := Normalize(item, target)
			if !ok {
				skipped++
				continue
			}
			out.articles = append(out.articles, *article)
		}
		metrics.RecordItemsParsed(target.SourceID, len(items)-skipped)

		if skipped > 0 {
			out.warnings = append(out.warnings, entity.NewWarning(entity.WarningInvalidItemSkipped,
				fmt.Sprintf("%s: skipped %d item(s) without a title", target.SourceName, skipped),
				target.SourceID, target.FeedURL))
		}
	}
	return out
}
