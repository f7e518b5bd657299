package image

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-news/internal/handler/http/middleware"
	"catchup-news/internal/infra/imagerelay"
	"catchup-news/pkg/ratelimit"
	"catchup-news/pkg/security/csp"
	"catchup-news/pkg/security/ssrf"
)

var gifBytes = append([]byte("GIF89a"), bytes.Repeat([]byte{0x01}, 512)...)

type noResolver struct{}

func (noResolver) LookupNetIP(context.Context, string, string) ([]netip.Addr, error) {
	return nil, errors.New("no such host")
}

// newRelay builds a relay whose guard still lets httptest loopback servers through.
func newRelay(t *testing.T, mutate func(*imagerelay.Config)) *imagerelay.Relay {
	t.Helper()
	bl, err := ssrf.NewBlocklist([]string{"10.0.0.0/8", "169.254.0.0/16", "192.168.0.0/16"}, []string{"localhost"}, nil)
	require.NoError(t, err)
	cfg := imagerelay.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return imagerelay.New(cfg, ssrf.New(bl, noResolver{}), nil)
}

func upstream(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func get(h http.Handler, method, imageURL string) *httptest.ResponseRecorder {
	target := "/api/image"
	if imageURL != "" {
		target += "?url=" + url.QueryEscape(imageURL)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_Success(t *testing.T) {
	t.Parallel()
	src := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Set-Cookie", "session=1")
		_, _ = w.Write(gifBytes)
	})
	h := &Handler{Relay: newRelay(t, nil)}

	rec := get(h, http.MethodGet, src+"/a.gif")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gifBytes, rec.Body.Bytes())
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, strconv.Itoa(len(gifBytes)), rec.Header().Get("Content-Length"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; img-src 'self'; sandbox", rec.Header().Get(csp.HeaderName))
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestHandler_Head(t *testing.T) {
	t.Parallel()
	src := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(gifBytes)
	})
	rec := get(&Handler{Relay: newRelay(t, nil)}, http.MethodHead, src)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}

func TestHandler_Errors(t *testing.T) {
	html := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	huge := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(6<<20))
		w.WriteHeader(http.StatusOK)
	})
	broken := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "secret stack trace", http.StatusInternalServerError)
	})
	slow := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	h := &Handler{Relay: newRelay(t, func(c *imagerelay.Config) { c.Timeout = 200 * time.Millisecond })}

	tests := []struct {
		name       string
		imageURL   string
		wantStatus int
		wantError  string
	}{
		{name: "missing url", imageURL: "", wantStatus: http.StatusBadRequest, wantError: "invalid url"},
		{name: "bad scheme", imageURL: "ftp://example.com/a.png", wantStatus: http.StatusBadRequest, wantError: "invalid url"},
		{name: "private address", imageURL: "http://10.0.0.1/a.png", wantStatus: http.StatusBadRequest, wantError: "url is not allowed"},
		{name: "metadata address", imageURL: "http://169.254.169.254/latest", wantStatus: http.StatusBadRequest, wantError: "url is not allowed"},
		{name: "localhost", imageURL: "http://localhost/a.png", wantStatus: http.StatusBadRequest, wantError: "url is not allowed"},
		{name: "not an image", imageURL: html, wantStatus: http.StatusUnsupportedMediaType, wantError: "unsupported content type"},
		{name: "declared too large", imageURL: huge, wantStatus: http.StatusRequestEntityTooLarge, wantError: "image too large"},
		{name: "upstream failure", imageURL: broken, wantStatus: http.StatusBadGateway, wantError: "upstream fetch failed"},
		{name: "upstream timeout", imageURL: slow, wantStatus: http.StatusGatewayTimeout, wantError: "upstream timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(h, http.MethodGet, tt.imageURL)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "secret")
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	rec := get(&Handler{Relay: newRelay(t, nil)}, http.MethodPost, "https://example.com/a.png")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestHandler_StreamPastLimitAborts(t *testing.T) {
	t.Parallel()
	src := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.WriteHeader(http.StatusOK)
		for range 4 {
			_, _ = w.Write(bytes.Repeat([]byte("g"), 1024))
			w.(http.Flusher).Flush()
		}
	})
	h := &Handler{Relay: newRelay(t, func(c *imagerelay.Config) { c.MaxBytes = 2048 })}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/image?url="+url.QueryEscape(src), nil)
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(rec, req)
	})
	assert.LessOrEqual(t, rec.Body.Len(), 2048)
}

type stubLimiter struct {
	mu      sync.Mutex
	keys    []string
	allowed bool
}

func (s *stubLimiter) Allow(key string) ratelimit.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return ratelimit.Decision{Key: key, Allowed: s.allowed, Limit: 1, RetryAfter: 1500 * time.Millisecond}
}

func TestHandler_RateLimited(t *testing.T) {
	t.Parallel()
	limiter := &stubLimiter{}
	h := &Handler{Relay: newRelay(t, nil), Limiter: limiter}

	rec := get(h, http.MethodGet, "https://example.com/a.png")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
	assert.Equal(t, []string{"192.0.2.1"}, limiter.keys, "httptest requests come from 192.0.2.1")
}

func TestHandler_RateLimitKeyUsesTrustedProxy(t *testing.T) {
	t.Parallel()
	proxies, err := middleware.ParseTrustedProxies([]string{"192.0.2.0/24"})
	require.NoError(t, err)
	limiter := &stubLimiter{}
	h := &Handler{Relay: newRelay(t, nil), Limiter: limiter, IPs: middleware.NewIPExtractor(proxies)}

	req := httptest.NewRequest(http.MethodGet, "/api/image", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 192.0.2.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"198.51.100.7"}, limiter.keys)
}

func TestHandler_RealLimiter(t *testing.T) {
	t.Parallel()
	src := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(gifBytes)
	})
	limiter, err := ratelimit.New(ratelimit.Config{Name: "image_relay_test", RequestsPerSecond: 0.001, Burst: 2}, nil, nil)
	require.NoError(t, err)
	h := &Handler{Relay: newRelay(t, nil), Limiter: limiter}

	assert.Equal(t, http.StatusOK, get(h, http.MethodGet, src).Code)
	assert.Equal(t, http.StatusOK, get(h, http.MethodGet, src).Code)
	rec := get(h, http.MethodGet, src)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
