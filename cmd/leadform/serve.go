package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/components/apartmentsearch"
	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/internal/logging"
	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/themes"
	"github.com/goliatone/go-leadform/pkg/uischema"
)

const shutdownTimeout = 10 * time.Second

func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.BasePath, "base", cfg.BasePath, "base path the form is mounted under")
	fs.StringVar(&cfg.UISchemaDir, "ui-schema-dir", cfg.UISchemaDir, "directory of form copy documents, reloaded on change")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "CONSOLE or JSON")
	fs.StringVar(&cfg.ThemeVariant, "variant", cfg.ThemeVariant, "default theme variant")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle session lifetime")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "maximum sessions that received an event")
	fs.IntVar(&cfg.MaxPending, "max-pending", cfg.MaxPending, "maximum sessions served a page but not yet used")
	fs.StringVar(&cfg.MetricsPath, "metrics-path", cfg.MetricsPath, "Prometheus endpoint (empty disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := themes.NewDefaultCatalog(assetsPath(cfg.BasePath))
	if err != nil {
		return err
	}
	orch := orchestrator.New(
		orchestrator.WithThemeSelector(catalog),
		orchestrator.WithThemeDefaults(themes.DefaultName, cfg.ThemeVariant),
	)

	if cfg.UISchemaDir != "" {
		store, err := uischema.LoadFS(os.DirFS(cfg.UISchemaDir))
		if err != nil {
			return err
		}
		orch.SetUISchemaStore(store)
		go watchUISchema(ctx, cfg.UISchemaDir, orch, logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	component, pattern, err := apartmentsearch.RegisterRoutes(mux, cfg.BasePath,
		apartmentsearch.WithOrchestrator(orch),
		apartmentsearch.WithTheme(themes.DefaultName, cfg.ThemeVariant),
		apartmentsearch.WithSessionTTL(cfg.SessionTTL),
		apartmentsearch.WithMaxSessions(cfg.MaxSessions),
		apartmentsearch.WithMaxPending(cfg.MaxPending),
		apartmentsearch.WithLogger(logger),
		apartmentsearch.WithRegisterer(reg),
		apartmentsearch.WithSubmit(logSubmission(logger)),
	)
	if err != nil {
		return err
	}
	defer component.Close()

	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("form", pattern),
			zap.String("metrics", cfg.MetricsPath),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func watchUISchema(ctx context.Context, dir string, orch *orchestrator.Orchestrator, logger *zap.Logger) {
	err := uischema.Watch(ctx, dir, uischema.WatchOptions{
		OnLoad: func(store *uischema.Store) {
			orch.SetUISchemaStore(store)
			logger.Info("ui schema loaded", zap.String("dir", dir), zap.Strings("forms", store.IDs()))
		},
		OnError: func(err error) {
			logger.Warn("ui schema reload failed", zap.String("dir", dir), zap.Error(err))
		},
	})
	if err != nil {
		logger.Error("ui schema watcher stopped", zap.String("dir", dir), zap.Error(err))
	}
}

// logSubmission stands in for the CRM or mailer that would receive the record.
func logSubmission(logger *zap.Logger) apartmentsearch.SubmitFunc {
	return func(_ context.Context, id string, sub intake.Submission) error {
		logger.Info("submission received",
			zap.String("session", id),
			zap.Any("values", sub.Values),
			zap.Int("issues", len(sub.Issues)),
		)
		return nil
	}
}

func assetsPath(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base != "" && !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base + "/assets"
}
