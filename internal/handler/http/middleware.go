package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"catchup-news/internal/handler/http/requestid"
	"catchup-news/internal/handler/http/respond"
	"catchup-news/internal/handler/http/responsewriter"
	"catchup-news/internal/observability/logging"
)

// Logging returns middleware that logs one "request completed" line per
// request, correlated by request ID and OpenTelemetry trace ID. It also
// stores a request-scoped logger in the context for downstream handlers.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := responsewriter.Wrap(w)

			reqLogger := logging.WithRequestID(r.Context(), logger)
			ctx := logging.WithLogger(r.Context(), reqLogger)

			defer func() {
				traceID := trace.SpanFromContext(r.Context()).SpanContext().TraceID().String()
				duration := time.Since(start)
				reqLogger.Info("request completed",
					slog.String("trace_id", traceID),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("query", respond.SanitizeString(r.URL.RawQuery)),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("user_agent", r.Header.Get("User-Agent")),
					slog.Int("status", wrapped.StatusCode()),
					slog.Int64("bytes", wrapped.BytesWritten()),
					slog.Duration("duration", duration),
					slog.String("duration_ms", fmt.Sprintf("%.2f", duration.Seconds()*1000)),
				)
			}()

			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

// Recover returns middleware that turns a handler panic into a 500 response.
//
// http.ErrAbortHandler is re-panicked: handlers use it to abort a response
// whose body is already partly written, and net/http must see it to drop the
// connection instead of ending the body cleanly.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := responsewriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if wrapped.HeaderWritten() {
					// Too late for an error document; make the client see a broken response.
					panic(http.ErrAbortHandler)
				}
				respond.SafeError(wrapped, http.StatusInternalServerError, errors.New("internal error"))
			}()
			next.ServeHTTP(wrapped, r)
		})
	}
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
