package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"staffing/internal/adapters/resources"
	"staffing/internal/blob"
	"staffing/internal/config"
	"staffing/internal/core"
	"staffing/internal/logging"
)

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	service  *core.Service
	registry *prometheus.Registry
}

// newApp wires stores, blob backend and observability from cfg. logOut
// receives structured logs and, when enabled, trace lines.
func newApp(ctx context.Context, cfg config.Config, logOut io.Writer) (*app, error) {
	logger := logging.New(cfg.Logging(logOut))

	stores, err := core.OpenStores(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithAuditRecorder(core.NewLogAuditRecorder(logger)),
	}
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom, err := core.NewPrometheusMetricsRecorder(registry)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		opts = append(opts, core.WithMetricsRecorder(core.MultiMetricsRecorder{
			prom,
			core.NewExpvarMetricsRecorder(""),
		}))
	}
	if cfg.Log.Trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(logOut)))
	}
	if cfg.BlobEnabled() {
		store, err := blob.Open(ctx, cfg.BlobConfig())
		if err != nil {
			_ = stores.Close()
			return nil, fmt.Errorf("open %s blob store: %w", cfg.Blob.Driver, err)
		}
		opts = append(opts, core.WithBlobStore(store))
	}

	svc := core.NewService(stores, opts...)
	if cfg.Storage.Seed {
		if err := svc.Seed(ctx); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return &app{cfg: cfg, logger: logger, service: svc, registry: registry}, nil
}

func (a *app) handler() http.Handler {
	opts := resources.Options{
		Logger:       a.logger,
		MaxBodyBytes: a.cfg.HTTP.MaxBodyBytes,
		Expvar:       a.cfg.Metrics.Enabled,
	}
	if a.registry != nil {
		opts.Gatherer = a.registry
	}
	return resources.NewRouter(a.service, opts)
}

// serve runs the HTTP server on ln until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a.handler(),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening",
			"addr", ln.Addr().String(),
			"storage", string(a.service.Stores().Driver()),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *app) Close() error { return a.service.Close() }
