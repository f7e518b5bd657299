// Package image provides the HTTP handler that relays remote images through
// the service so clients never contact arbitrary hosts directly.
package image

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"catchup-news/internal/handler/http/middleware"
	"catchup-news/internal/handler/http/respond"
	"catchup-news/internal/infra/imagerelay"
	"catchup-news/internal/observability/logging"
	"catchup-news/internal/observability/metrics"
	"catchup-news/pkg/ratelimit"
	"catchup-news/pkg/security/csp"
)

// Relay fetches an upstream image. *imagerelay.Relay satisfies it.
type Relay interface {
	Fetch(ctx context.Context, rawURL string) (*imagerelay.Upstream, error)
}

// Limiter decides whether a client may make another request.
// *ratelimit.KeyedLimiter satisfies it.
type Limiter interface {
	Allow(key string) ratelimit.Decision
}

// relayPolicy is the CSP sent with relayed bytes.
var relayPolicy = csp.ImageRelayPolicy().Build()

// Handler serves GET /api/image?url=.
type Handler struct {
	Relay Relay
	// Limiter is optional; nil disables rate limiting.
	Limiter Limiter
	// IPs keys the limiter. Nil means the TCP peer address.
	IPs middleware.IPExtractor
}

// ServeHTTP relays one image.
// @Summary      Image relay
// @Description  Streams a remote image after SSRF checks on every redirect hop. Only image content types are relayed and bodies are capped in size.
// @Tags         image
// @Produce      image/png,image/jpeg,image/gif,image/webp,image/avif,image/svg+xml
// @Param        url  query  string  true  "Absolute http(s) image URL"
// @Success      200 {file}   binary
// @Failure      400 {object} respond.ErrorBody "Invalid or unsafe URL"
// @Failure      405 {object} respond.ErrorBody "Method not allowed"
// @Failure      413 {object} respond.ErrorBody "Image too large"
// @Failure      415 {object} respond.ErrorBody "Upstream is not an image"
// @Failure      429 {object} respond.ErrorBody "Rate limit exceeded"
// @Failure      502 {object} respond.ErrorBody "Upstream failure"
// @Failure      504 {object} respond.ErrorBody "Upstream timeout"
// @Router       /api/image [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		respond.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Limiter != nil {
		d := h.Limiter.Allow(h.clientKey(r))
		if !d.Allowed {
			metrics.RecordImageRelay("rate_limited", 0)
			w.Header().Set("Retry-After", strconv.FormatInt(d.RetryAfterSeconds(), 10))
			respond.JSON(w, http.StatusTooManyRequests, respond.ErrorBody{Error: "rate limit exceeded"})
			return
		}
	}

	up, err := h.Relay.Fetch(ctx, r.URL.Query().Get("url"))
	if err != nil {
		status := imagerelay.StatusCode(err)
		metrics.RecordImageRelay(outcome(err), 0)
		logger.Warn("image relay rejected",
			slog.Int("status", status),
			slog.String("error", respond.SanitizeError(err)))
		respond.JSON(w, status, respond.ErrorBody{Error: userMessage(err)})
		return
	}
	defer up.Close()

	header := w.Header()
	for k, vs := range up.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set(csp.HeaderName, relayPolicy)
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		metrics.RecordImageRelay(metrics.OutcomeSuccess, 0)
		return
	}

	n, err := up.CopyTo(w)
	if err != nil {
		// Headers are already out; abort so the client sees a truncated response.
		metrics.RecordImageRelay("aborted", n)
		logger.Warn("image relay aborted mid-stream",
			slog.Int64("bytes", n),
			slog.String("error", respond.SanitizeError(err)))
		panic(http.ErrAbortHandler)
	}
	metrics.RecordImageRelay(metrics.OutcomeSuccess, n)
}

func (h *Handler) clientKey(r *http.Request) string {
	ips := h.IPs
	if ips == nil {
		ips = &middleware.RemoteAddrExtractor{}
	}
	ip, err := ips.ExtractIP(r)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// userMessage keeps upstream details out of the response body.
func userMessage(err error) string {
	switch {
	case errors.Is(err, imagerelay.ErrInvalidURL):
		return "invalid url"
	case errors.Is(err, imagerelay.ErrBlocked):
		return "url is not allowed"
	case errors.Is(err, imagerelay.ErrTooLarge):
		return "image too large"
	case errors.Is(err, imagerelay.ErrNotImage):
		return "unsupported content type"
	case errors.Is(err, imagerelay.ErrTimeout):
		return "upstream timed out"
	default:
		return "upstream fetch failed"
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, imagerelay.ErrInvalidURL):
		return "invalid"
	case errors.Is(err, imagerelay.ErrBlocked):
		return "blocked"
	case errors.Is(err, imagerelay.ErrTooLarge):
		return "too_large"
	case errors.Is(err, imagerelay.ErrNotImage):
		return "not_image"
	case errors.Is(err, imagerelay.ErrTimeout):
		return metrics.OutcomeTimeout
	default:
		return "upstream_error"
	}
}
