// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// Config for the runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Component is a background task that runs until its context is canceled.
type Component interface {
	Run(ctx context.Context) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context) error

func (f ComponentFunc) Run(ctx context.Context) error { return f(ctx) }

type namedComponent struct {
	name string
	c    Component
}

// Runner serves HTTP and manages background components.
type Runner struct {
	config     Config
	handler    http.Handler
	logger     *zap.Logger
	listener   net.Listener
	components []namedComponent
}

// Option configures a Runner.
type Option func(*Runner)

// WithComponent adds a background component.
func WithComponent(name string, c Component) Option {
	return func(r *Runner) {
		r.components = append(r.components, namedComponent{name: name, c: c})
	}
}

// WithListener serves on ln instead of listening on Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(r *Runner) { r.listener = ln }
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, handler http.Handler, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	r := &Runner{
		config:  cfg,
		handler: handler,
		logger:  logger.With(zap.String("component", "runner")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run serves HTTP and starts all components. It blocks until the context is
// canceled or a component fails, then shuts the HTTP server down gracefully.
// Cancellation is a clean exit and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	ln := r.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", r.config.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", r.config.Addr, err)
		}
	}

	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server starting", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		r.logger.Info("http server stopping")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	for _, nc := range r.components {
		g.Go(func() error {
			r.logger.Debug("component starting", zap.String("name", nc.name))
			err := nc.c.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("component failed", zap.String("name", nc.name), zap.Error(err))
				return fmt.Errorf("%s: %w", nc.name, err)
			}
			r.logger.Debug("component stopped", zap.String("name", nc.name))
			return nil
		})
	}

	return g.Wait()
}
