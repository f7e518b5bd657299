// Package fetcher retrieves raw feed documents for a batch of feed targets.
//
// Every distinct feed URL is requested once, concurrently, with its own
// deadline. Failures never abort the batch; they come back as warnings next
// to the successful bodies.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"catchup-news/internal/domain/entity"
	"catchup-news/internal/observability/metrics"
	"catchup-news/internal/observability/tracing"
)

// URLGuard vets outbound destinations. *ssrf.Guard satisfies it.
type URLGuard interface {
	CheckURL(ctx context.Context, u *url.URL) error
	Control(network, address string, c syscall.RawConn) error
}

// Fetcher fetches feed bodies over HTTP.
// It holds no per-request state and is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	config FeedFetchConfig
	guard  URLGuard
	logger *slog.Logger
}

// New creates a Fetcher. A nil guard disables SSRF checks, which is only
// appropriate when DenyPrivateIPs is false (tests, trusted networks).
func New(config FeedFetchConfig, guard URLGuard, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{config: config, guard: guard, logger: logger}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if guard != nil {
		dialer.Control = guard.Control
	}

	f.client = &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if f.guard != nil {
				if err := f.guard.CheckURL(req.Context(), req.URL); err != nil {
					return fmt.Errorf("redirect target rejected: %w", err)
				}
			}
			return nil
		},
	}
	return f
}

// feedGroup is one distinct feed URL and every target that reads it.
type feedGroup struct {
	url     string
	targets []entity.SourceFeedTarget
}

// outcome is the tagged result of one group: either body or warnings is set.
type outcome struct {
	body     *entity.FeedBody
	warnings []entity.Warning
}

// FetchAll fetches every distinct feed URL in targets concurrently.
// Each URL gets its own deadline of timeout (the configured Timeout when
// timeout ≤ 0). Per-feed failures become warnings; FetchAll never fails as a
// whole. Successes and warnings keep the order in which URLs first appear.
func (f *Fetcher) FetchAll(ctx context.Context, targets []entity.SourceFeedTarget, timeout time.Duration) entity.FetchResult {
	if timeout <= 0 {
		timeout = f.config.Timeout
	}

	groups := groupByFeedURL(targets)
	outcomes := make([]outcome, len(groups))

	// Plain Group, not WithContext: one failed feed must not cancel its siblings.
	var eg errgroup.Group
	for i, g := range groups {
		eg.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					f.logger.Error("feed fetch panicked",
						slog.String("feed_url", g.url),
						slog.Any("panic", r))
					outcomes[i] = outcome{warnings: []entity.Warning{
						entity.NewWarning(entity.WarningSourceFetchFailed,
							fmt.Sprintf("unexpected fetch failure: %v", r), "", ""),
					}}
				}
			}()
			outcomes[i] = f.fetchGroup(ctx, g, timeout)
			return nil
		})
	}
	_ = eg.Wait()

	var result entity.FetchResult
	for _, o := range outcomes {
		if o.body != nil {
			result.Successes = append(result.Successes, *o.body)
		}
		result.Warnings = append(result.Warnings, o.warnings...)
	}
	return result
}

func (f *Fetcher) fetchGroup(ctx context.Context, g feedGroup, timeout time.Duration) outcome {
	ctx, span := tracing.Start(ctx, "fetcher.fetch",
		attribute.String("feed.url", g.url),
		attribute.Int("feed.targets", len(g.targets)))
	defer span.End()

	start := time.Now()
	body, contentType, err := f.get(ctx, g.url, timeout)
	duration := time.Since(start)

	if err != nil {
		code := entity.WarningSourceFetchFailed
		label := metrics.OutcomeFailure
		if errors.Is(err, ErrTimeout) {
			code = entity.WarningSourceTimeout
			label = metrics.OutcomeTimeout
		}
		metrics.RecordFeedFetch(label, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		f.logger.Warn("feed fetch failed",
			slog.String("feed_url", g.url),
			slog.String("code", string(code)),
			slog.Duration("duration", duration),
			slog.Any("error", err))

		return outcome{warnings: groupWarnings(g, code, warningMessage(code, timeout, err))}
	}

	metrics.RecordFeedFetch(metrics.OutcomeSuccess, duration)
	metrics.RecordFeedSize(len(body))
	span.SetAttributes(attribute.Int("feed.bytes", len(body)))

	f.logger.Debug("feed fetched",
		slog.String("feed_url", g.url),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", duration))

	return outcome{body: &entity.FeedBody{
		FeedURL:     g.url,
		Targets:     g.targets,
		Body:        body,
		ContentType: contentType,
	}}
}

// get performs a single GET with a deadline and a capped body read.
// The response body is closed on every path.
func (f *Fetcher) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if f.guard != nil {
		if err := f.guard.CheckURL(reqCtx, u); err != nil {
			if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
				return nil, "", fmt.Errorf("%w: resolving %s exceeded %v", ErrTimeout, u.Hostname(), timeout)
			}
			return nil, "", err
		}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/rdf+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, "", urlErr.Err
		}
		return nil, "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, "", fmt.Errorf("%w: body read exceeded %v", ErrTimeout, timeout)
		}
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, "", fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// groupByFeedURL collapses targets sharing a feed URL, preserving first-seen order.
func groupByFeedURL(targets []entity.SourceFeedTarget) []feedGroup {
	index := make(map[string]int, len(targets))
	var groups []feedGroup
	for _, t := range targets {
		i, ok := index[t.FeedURL]
		if !ok {
			i = len(groups)
			index[t.FeedURL] = i
			groups = append(groups, feedGroup{url: t.FeedURL})
		}
		groups[i].targets = append(groups[i].targets, t)
	}
	return groups
}

// groupWarnings emits one warning per distinct source reading the failed URL.
func groupWarnings(g feedGroup, code entity.WarningCode, msg string) []entity.Warning {
	seen := make(map[string]bool, len(g.targets))
	var out []entity.Warning
	for _, t := range g.targets {
		if seen[t.SourceID] {
			continue
		}
		seen[t.SourceID] = true
		out = append(out, entity.NewWarning(code, fmt.Sprintf("%s: %s", t.SourceName, msg), t.SourceID, g.url))
	}
	return out
}

func warningMessage(code entity.WarningCode, timeout time.Duration, err error) string {
	if code == entity.WarningSourceTimeout {
		return fmt.Sprintf("feed did not respond within %v", timeout)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("feed returned HTTP %d", statusErr.StatusCode)
	}
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return "feed body exceeds size limit"
	case errors.Is(err, ErrTooManyRedirects):
		return "feed redirected too many times"
	default:
		return "feed could not be fetched"
	}
}
