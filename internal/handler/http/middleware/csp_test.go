package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"catchup-news/pkg/security/csp"
)

func serve(m *CSPMiddleware, path string) *httptest.ResponseRecorder {
	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCSPMiddleware_PathSelection(t *testing.T) {
	m := NewCSPMiddleware(CSPMiddlewareConfig{
		Enabled:       true,
		DefaultPolicy: csp.StrictPolicy(),
		PathPolicies: map[string]*csp.CSPBuilder{
			"/swagger/":   csp.SwaggerUIPolicy(),
			"/api/image":  csp.ImageRelayPolicy(),
			"/api/":       csp.NewCSPBuilder().DefaultSrc("'self'"),
			"/ignored/":   nil,
			"/empty-csp/": csp.NewCSPBuilder(),
		},
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/swagger/index.html", want: csp.SwaggerUIPolicy().Build()},
		{path: "/api/image", want: "default-src 'none'; img-src 'self'; sandbox"},
		{path: "/api/news", want: "default-src 'self'"},
		{path: "/health", want: csp.StrictPolicy().Build()},
		{path: "/ignored/x", want: csp.StrictPolicy().Build()},
		{path: "/empty-csp/x", want: csp.StrictPolicy().Build()},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			rec := serve(m, tt.path)
			assert.Equal(t, tt.want, rec.Header().Get(csp.HeaderName))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
		})
	}
}

func TestCSPMiddleware_Disabled(t *testing.T) {
	t.Parallel()
	m := NewCSPMiddleware(CSPMiddlewareConfig{DefaultPolicy: csp.StrictPolicy()})
	rec := serve(m, "/api/news")

	assert.Empty(t, rec.Header().Get(csp.HeaderName))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestCSPMiddleware_ReportOnly(t *testing.T) {
	t.Parallel()
	m := NewCSPMiddleware(CSPMiddlewareConfig{
		Enabled:       true,
		DefaultPolicy: csp.StrictPolicy(),
		ReportOnly:    true,
	})
	rec := serve(m, "/api/news")

	assert.Empty(t, rec.Header().Get(csp.HeaderName))
	assert.Equal(t, csp.StrictPolicy().Build(), rec.Header().Get(csp.ReportOnlyHeaderName))
}

func TestCSPMiddleware_NoDefault(t *testing.T) {
	t.Parallel()
	m := NewCSPMiddleware(CSPMiddlewareConfig{Enabled: true})
	assert.Empty(t, serve(m, "/").Header().Get(csp.HeaderName))
}

func TestCSPMiddleware_Concurrent(t *testing.T) {
	t.Parallel()
	m := NewCSPMiddleware(CSPMiddlewareConfig{
		Enabled:       true,
		DefaultPolicy: csp.StrictPolicy(),
		PathPolicies:  map[string]*csp.CSPBuilder{"/swagger/": csp.SwaggerUIPolicy()},
	})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := "/api/news"
			if i%2 == 0 {
				path = "/swagger/index.html"
			}
			assert.NotEmpty(t, serve(m, path).Header().Get(csp.HeaderName))
		}()
	}
	wg.Wait()
}
