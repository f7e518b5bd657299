// Package imagerelay proxies remote images for clients without letting the
// caller reach private networks or pull unbounded bodies.
package imagerelay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catchup-news/internal/observability/tracing"
	"catchup-news/pkg/security/ssrf"
)

// URLGuard vets every hop. *ssrf.Guard satisfies it.
type URLGuard interface {
	CheckURL(ctx context.Context, u *url.URL) error
	Control(network, address string, c syscall.RawConn) error
}

// forwardedHeaders are copied from the upstream response.
var forwardedHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Cache-Control",
	"ETag",
	"Last-Modified",
	"Expires",
}

// Relay fetches images from untrusted URLs.
// It holds no per-request state and is safe for concurrent use.
type Relay struct {
	client *http.Client
	config Config
	guard  URLGuard
	logger *slog.Logger
}

// New creates a Relay. The guard is required; every hop and every dial is
// checked against it.
func New(config Config, guard URLGuard, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   guard.Control,
	}
	return &Relay{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
			// Redirects are followed by hand so each hop is re-checked.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		config: config,
		guard:  guard,
		logger: logger,
	}
}

// Upstream is an accepted upstream response whose body has not been read.
// The caller must Close it.
type Upstream struct {
	// Header holds the forwarded subset of the upstream headers.
	Header http.Header
	// URL is the final URL after redirects.
	URL string

	body   io.ReadCloser
	cancel context.CancelFunc
	limit  int64
	span   trace.Span
}

// Fetch resolves rawURL to an image response. It rejects the request before
// anything is streamed when the URL is unsafe, the upstream is not an image,
// or a declared Content-Length exceeds MaxBytes.
//
// The upstream deadline is derived from ctx, so a client disconnect cancels
// the upstream request as well.
func (r *Relay) Fetch(ctx context.Context, rawURL string) (*Upstream, error) {
	u, err := parseImageURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	ctx, span := tracing.Start(ctx, "imagerelay.fetch", attribute.String("image.host", u.Hostname()))

	fail := func(err error) (*Upstream, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		cancel()
		return nil, err
	}

	for hop := 0; ; hop++ {
		if err := r.guard.CheckURL(ctx, u); err != nil {
			// A lookup cut off by the deadline says nothing about the host.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fail(fmt.Errorf("%w: resolving %s: %v", ErrTimeout, u.Hostname(), err))
			}
			return fail(fmt.Errorf("%w: %w", ErrBlocked, err))
		}

		resp, err := r.get(ctx, u)
		if err != nil {
			return fail(err)
		}

		if isRedirect(resp.StatusCode) {
			discard(resp.Body)
			if hop >= r.config.MaxRedirects {
				return fail(fmt.Errorf("%w: %w after %d hops", ErrUpstream, errRedirectCap, hop))
			}
			next, err := nextHop(u, resp.Header.Get("Location"))
			if err != nil {
				return fail(err)
			}
			r.logger.Debug("image relay redirect",
				slog.String("from_host", u.Hostname()),
				slog.String("to_host", next.Hostname()),
				slog.Int("hop", hop+1))
			u = next
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			discard(resp.Body)
			return fail(fmt.Errorf("%w: upstream returned HTTP %d", ErrUpstream, resp.StatusCode))
		}
		if !isImage(resp.Header.Get("Content-Type")) {
			discard(resp.Body)
			return fail(fmt.Errorf("%w: content type %q", ErrNotImage, resp.Header.Get("Content-Type")))
		}
		if resp.ContentLength > r.config.MaxBytes {
			discard(resp.Body)
			return fail(fmt.Errorf("%w: declared %d bytes, limit %d", ErrTooLarge, resp.ContentLength, r.config.MaxBytes))
		}

		span.SetAttributes(
			attribute.Int("image.redirects", hop),
			attribute.Int64("image.declared_bytes", resp.ContentLength))

		header := make(http.Header, len(forwardedHeaders))
		for _, k := range forwardedHeaders {
			if v := resp.Header.Get(k); v != "" {
				header.Set(k, v)
			}
		}
		return &Upstream{
			Header: header,
			URL:    u.String(),
			body:   resp.Body,
			cancel: cancel,
			limit:  r.config.MaxBytes,
			span:   span,
		}, nil
	}
}

func (r *Relay) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", r.config.UserAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/*;q=0.9,*/*;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return resp, nil
}

// CopyTo streams the body to w and returns the bytes written. It stops
// before writing past the limit and returns ErrTooLarge; by then headers
// have already gone out, so the caller has to abort the connection.
func (up *Upstream) CopyTo(w io.Writer) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, rerr := up.body.Read(buf)
		if n > 0 {
			if total+int64(n) > up.limit {
				up.Close()
				return total, fmt.Errorf("%w: body passed %d bytes", ErrTooLarge, up.limit)
			}
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, fmt.Errorf("write to client: %w", werr)
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, fmt.Errorf("%w: read body: %v", ErrUpstream, rerr)
		}
	}
}

// Close cancels the upstream request and releases its body. It is safe to
// call more than once.
func (up *Upstream) Close() {
	up.cancel()
	_ = up.body.Close()
	up.span.End()
}

func parseImageURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return nil, fmt.Errorf("%w: scheme %q is not allowed", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

func nextHop(current *url.URL, location string) (*url.URL, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, errNoLocation)
	}
	next, err := current.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: bad redirect location: %v", ErrUpstream, err)
	}
	if s := strings.ToLower(next.Scheme); s != "http" && s != "https" {
		return nil, fmt.Errorf("%w: redirect to scheme %q", ErrBlocked, next.Scheme)
	}
	return next, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ssrf.ErrBlocked):
		return fmt.Errorf("%w: %w", ErrBlocked, err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

// discard closes a body we are not going to relay. A short drain lets the
// connection be reused.
func discard(body io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, body, 4096)
	_ = body.Close()
}
