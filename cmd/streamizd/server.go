package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	v1 "github.com/vmunix/streamiz/internal/api/v1"
	"github.com/vmunix/streamiz/internal/catalog"
	"github.com/vmunix/streamiz/internal/config"
	"github.com/vmunix/streamiz/internal/events"
	"github.com/vmunix/streamiz/internal/hydrate"
	"github.com/vmunix/streamiz/internal/logging"
	"github.com/vmunix/streamiz/internal/mirror"
	"github.com/vmunix/streamiz/internal/notify"
	"github.com/vmunix/streamiz/internal/remote"
	"github.com/vmunix/streamiz/internal/server"
	"github.com/vmunix/streamiz/internal/tmdb"
)

const pruneInterval = time.Hour

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Server.LogLevel,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting streamizd", zap.String("version", version), zap.String("config", configPath))

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	runner := server.NewRunner(server.Config{Addr: cfg.Addr()}, a.handler, logger, a.components...)
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("streamizd stopped")
	return nil
}

// app holds the wired daemon.
type app struct {
	store      *catalog.Store
	bus        *events.Bus
	handler    http.Handler
	components []server.Option
	closers    []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	// === Local mirror ===
	mir, err := mirror.Open(ctx, cfg.Mirror.Driver, cfg.Mirror.Path)
	if err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}

	// === Event bus (audit log optional) ===
	var eventLog *events.EventLog
	if cfg.Events.Audit {
		sq, ok := mir.(*mirror.SQLite)
		if !ok {
			_ = mir.Close()
			return nil, errors.New("events.audit requires the sqlite mirror")
		}
		eventLog = events.NewEventLog(sq.DB())
	}
	a.bus = events.NewBus(eventLog, logger.With(zap.String("component", "bus")))
	a.closers = append(a.closers, func() { _ = a.bus.Close() })

	// === Remote store (optional: read-only without it) ===
	var rem catalog.Remote
	r, err := remote.Open(ctx, remote.Config{
		Driver:          cfg.Remote.Driver,
		DSN:             cfg.Remote.DSN,
		ConnectAttempts: uint(cfg.Remote.ConnectAttempts),
		ConnectDelay:    cfg.Remote.ConnectDelay,
	}, logger.With(zap.String("component", "remote")))
	var cfgErr *catalog.ConfigError
	switch {
	case err == nil:
		rem = r
	case errors.As(err, &cfgErr):
		if errors.Is(err, catalog.ErrNotConfigured) {
			logger.Warn("remote store not configured, catalog is read-only")
		} else {
			logger.Error("remote store unavailable, catalog is read-only", zap.Error(err))
		}
	default:
		_ = mir.Close()
		return nil, fmt.Errorf("remote: %w", err)
	}

	// === Catalog store ===
	a.store = catalog.New(rem, mir,
		catalog.WithLogger(logger),
		catalog.WithBus(a.bus),
		catalog.WithRemoteTimeout(cfg.Remote.Timeout),
	)
	a.closers = append([]func(){func() { _ = a.store.Close() }}, a.closers...)
	if err := a.store.Open(ctx); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	deps := v1.ServerDeps{
		Catalog:   a.store,
		Logger:    logger,
		JWTSecret: cfg.Auth.JWTSecret,
	}

	// === Metadata (optional) ===
	if cfg.TMDB.APIKey != "" {
		client := tmdb.NewClient(cfg.TMDB.APIKey,
			tmdb.WithBaseURL(cfg.TMDB.BaseURL),
			tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
			tmdb.WithLanguage(cfg.TMDB.Language),
			tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		)
		deps.Hydrator = hydrate.New(client, a.store,
			hydrate.WithConcurrency(cfg.TMDB.Concurrency),
			hydrate.WithLogger(logger),
		)
	} else {
		logger.Warn("tmdb.api_key not set, metadata routes disabled")
	}

	if eventLog != nil {
		deps.EventLog = eventLog
		a.components = append(a.components, server.WithComponent("pruner",
			server.NewPruner(eventLog, cfg.Events.Retention, pruneInterval, logger)))
	}

	// === Notifications (optional) ===
	if cfg.Notify.NATSURL != "" {
		nc, err := notify.Connect(cfg.Notify.NATSURL)
		if err != nil {
			logger.Error("nats unavailable, notifications disabled", zap.Error(err))
		} else {
			a.closers = append([]func(){func() { _ = nc.Drain() }}, a.closers...)
			a.components = append(a.components, server.WithComponent("notify",
				notify.New(a.bus, nc, cfg.Notify.SubjectPrefix, logger.With(zap.String("component", "notify")))))
		}
	}

	api, err := v1.New(deps)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	a.handler = api.Handler()
	return a, nil
}

// close releases resources in reverse dependency order.
func (a *app) close() {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}
