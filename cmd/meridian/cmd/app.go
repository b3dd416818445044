package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/meridian-commerce/meridian/internal/adapter/outbound/localstore"
	"github.com/meridian-commerce/meridian/internal/config"
	"github.com/meridian-commerce/meridian/internal/media"
	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/service"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// app wires the configured backends and services together for one
// command invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	kv     localstore.KV
	client *storeapi.Client

	session         *service.SessionService
	cart            *service.CartService
	wishlist        *service.WishlistService
	orders          *service.OrderService
	settings        *service.SettingsService
	recommendations *service.RecommendationService
	analytics       *service.AnalyticsService

	tracerShutdown func(context.Context) error
}

// newApp loads config and builds the full service graph. The session is
// rehydrated from the local store before newApp returns.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if statePath != "" {
		cfg.State.Path = statePath
	}

	logger := newLogger(cfg.LogLevel)
	if used := config.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}

	kv, err := openState(cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics(prometheus.NewRegistry())

	a := &app{cfg: cfg, logger: logger, kv: kv}

	opts := []storeapi.Option{
		storeapi.WithBaseURL(cfg.API.BaseURL),
		storeapi.WithTimeout(cfg.API.Timeout),
		storeapi.WithLogger(logger),
		// Late-bound: the session service is constructed below.
		storeapi.WithTokenSource(func() (string, bool) {
			if a.session == nil {
				return "", false
			}
			return a.session.Token()
		}),
	}

	if cfg.Trace {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("init trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		a.tracerShutdown = tp.Shutdown
		opts = append(opts, storeapi.WithTracerProvider(tp))
	}

	a.client = storeapi.NewClient(opts...)

	resolver := media.NewResolver(cfg.API.MediaURL)

	a.session = service.NewSessionService(a.client, kv, logger, m)
	a.cart = service.NewCartService(a.client, logger, m)
	a.wishlist = service.NewWishlistService(a.client, logger, m)
	a.orders = service.NewOrderService(a.client, logger, m)
	a.settings = service.NewSettingsService(a.client, logger, m)
	a.recommendations = service.NewRecommendationService(a.client, resolver, logger, m)
	a.analytics = service.NewAnalyticsService(a.client, logger, m)

	a.session.Rehydrate()
	return a, nil
}

// close releases stores and backends. Errors are logged, not returned;
// a command's result should not depend on teardown.
func (a *app) close(ctx context.Context) {
	a.cart.Close()
	a.wishlist.Close()
	a.orders.Close()
	a.settings.Close()
	a.analytics.Close()
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close session store", "error", err)
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Warn("failed to flush traces", "error", err)
		}
	}
}

// requireSession fails fast for commands that need authentication.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not signed in; run 'meridian login' first")
	}
	return nil
}

// requireAdmin fails fast for back-office commands.
func (a *app) requireAdmin() error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if a.session.AdminUser() == nil {
		return fmt.Errorf("not an admin session; run 'meridian admin login' first")
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openState builds the configured session backend, creating the parent
// directory for the default path under the home directory.
func openState(cfg *config.Config, logger *slog.Logger) (localstore.KV, error) {
	if dir := filepath.Dir(cfg.State.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	switch cfg.State.Backend {
	case "sqlite":
		return localstore.NewSQLiteStore(cfg.State.Path)
	default:
		return localstore.NewFileStore(cfg.State.Path, logger), nil
	}
}
