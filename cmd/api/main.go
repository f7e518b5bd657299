package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"catchup-news/internal/config"
	"catchup-news/internal/infra/catalog"
	"catchup-news/internal/infra/feedparser"
	"catchup-news/internal/infra/fetcher"
	"catchup-news/internal/infra/imagerelay"
	"catchup-news/internal/observability/logging"
	"catchup-news/internal/observability/tracing"
	"catchup-news/pkg/ratelimit"
	"catchup-news/pkg/security/csp"
	"catchup-news/pkg/security/ssrf"

	newsUC "catchup-news/internal/usecase/news"

	hhttp "catchup-news/internal/handler/http"
	himage "catchup-news/internal/handler/http/image"
	"catchup-news/internal/handler/http/middleware"
	hnews "catchup-news/internal/handler/http/news"
	"catchup-news/internal/handler/http/requestid"

	_ "catchup-news/docs" // swagger docs
)

// @title           Catchup News API
// @version         1.0
// @description     Aggregates RSS, Atom and RDF feeds from a source catalog into a deduplicated, newest-first news list.
// @description     Also relays remote article images behind SSRF checks.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := initLogger(cfg.LogLevel)

	shutdownTracer, err := tracing.InitTracer(context.Background(), tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "catchup-news",
		ServiceVersion: cfg.Version,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	handler, err := setupServer(logger, cfg)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(logger, cfg, handler)
}

// initLogger initializes the JSON logger at the configured level and makes it the default.
func initLogger(level string) *slog.Logger {
	logger := logging.New(os.Stdout, logging.ParseLevel(level), false)
	slog.SetDefault(logger)
	return logger
}

// setupServer wires the pipeline, the image relay and every route.
func setupServer(logger *slog.Logger, cfg config.Config) (http.Handler, error) {
	guard := ssrf.New(ssrf.DefaultBlocklist(), net.DefaultResolver)

	var feedGuard fetcher.URLGuard
	if cfg.Fetch.DenyPrivateIPs {
		feedGuard = guard
	} else {
		logger.Warn("feed SSRF protection is DISABLED - not recommended for production")
	}

	loader := catalog.NewFileLoader(cfg.CatalogFile, logger)
	newsSvc := newsUC.NewService(
		loader,
		fetcher.New(cfg.Fetch, feedGuard, logger),
		feedparser.Parse,
		cfg.Fetch.Timeout,
	)

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if len(proxies.AllowedCIDRs) > 0 {
		logger.Info("image rate limit: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxies.AllowedCIDRs)))
	} else {
		logger.Info("image rate limit: using RemoteAddr (proxy headers ignored)")
	}

	limiter, err := ratelimit.New(ratelimit.Config{
		Name:              "image_relay",
		RequestsPerSecond: cfg.ImageRateLimit.RequestsPerSecond,
		Burst:             cfg.ImageRateLimit.Burst,
	}, nil, ratelimit.NewPrometheusMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/health", &hhttp.HealthHandler{Catalog: newsSvc, Version: cfg.Version})
	mux.Handle("/ready", &hhttp.ReadyHandler{Catalog: newsSvc})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	hnews.Register(mux, newsSvc, cfg.Pagination)
	mux.Handle("/api/image", &himage.Handler{
		Relay:   imagerelay.New(cfg.ImageRelay, guard, logger),
		Limiter: limiter,
		IPs:     middleware.NewIPExtractor(proxies),
	})

	logger.Info("server configured",
		slog.String("catalog_file", cfg.CatalogFile),
		slog.Duration("feed_timeout", cfg.Fetch.Timeout),
		slog.Int64("image_max_bytes", cfg.ImageRelay.MaxBytes),
		slog.Float64("image_rate_limit", cfg.ImageRateLimit.RequestsPerSecond),
		slog.Int("image_rate_burst", cfg.ImageRateLimit.Burst))

	return applyMiddleware(logger, mux), nil
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Security headers → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	securityHeaders := middleware.NewCSPMiddleware(middleware.CSPMiddlewareConfig{
		Enabled:       true,
		DefaultPolicy: csp.StrictPolicy(),
		PathPolicies: map[string]*csp.CSPBuilder{
			"/swagger/":  csp.SwaggerUIPolicy(),
			"/api/image": csp.ImageRelayPolicy(),
		},
	})

	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		securityHeaders.Middleware(),
		hhttp.MetricsMiddleware,
	)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg config.Config, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down server...", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	// Cancel in-flight pipelines that outlived the shutdown window.
	cancel()
	logger.Info("server stopped")
}
