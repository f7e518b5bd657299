package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"catchup-news/internal/handler/http/requestid"
)

func setupTestProvider(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(sdktrace.NewTracerProvider()) })
	return exporter, tp
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter, tp := setupTestProvider(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "GET /api/news" {
		t.Errorf("expected span name 'GET /api/news', got '%s'", span.Name)
	}

	found := map[string]bool{}
	for _, attr := range span.Attributes {
		found[string(attr.Key)] = true
		if attr.Key == "http.response.status_code" && attr.Value.AsInt64() != 200 {
			t.Errorf("expected http.response.status_code=200, got %d", attr.Value.AsInt64())
		}
	}
	for _, key := range []string{"http.request.method", "http.route", "http.response.status_code", "http.response.body.size"} {
		if !found[key] {
			t.Errorf("span attribute %s not recorded", key)
		}
	}

	if got := rr.Header().Get("X-Trace-Id"); got != span.SpanContext.TraceID().String() {
		t.Errorf("X-Trace-Id = %q, want %q", got, span.SpanContext.TraceID().String())
	}
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter, tp := setupTestProvider(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/image", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id = %s, want propagated id", got)
	}
	if got := spans[0].Parent.SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("parent span id = %s, want 00f067aa0ba902b7", got)
	}
}

func TestMiddleware_StatusByCode(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode codes.Code
	}{
		{name: "5xx marks error", status: http.StatusBadGateway, wantCode: codes.Error},
		{name: "4xx is not an error", status: http.StatusNotFound, wantCode: codes.Unset},
		{name: "2xx is not an error", status: http.StatusOK, wantCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, tp := setupTestProvider(t)

			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
			_ = tp.ForceFlush(context.Background())

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("expected 1 span, got %d", len(spans))
			}
			if spans[0].Status.Code != tt.wantCode {
				t.Errorf("status code = %v, want %v", spans[0].Status.Code, tt.wantCode)
			}
		})
	}
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestMiddleware_RecordsRequestID(t *testing.T) {
	exporter, tp := setupTestProvider(t)

	handler := requestid.Middleware(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	req := httptest.NewRequest(http.MethodGet, "/api/news/home", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	for _, attr := range spans[0].Attributes {
		if attr.Key == "http.request_id" {
			if attr.Value.AsString() != "req-7" {
				t.Errorf("http.request_id = %q, want req-7", attr.Value.AsString())
			}
			return
		}
	}
	t.Error("http.request_id not recorded")
}
