package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sriramramnath/EducationOS/internal/config"
	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/instrumentation"
	"github.com/sriramramnath/EducationOS/internal/logging"
	"github.com/sriramramnath/EducationOS/internal/server"
	"github.com/sriramramnath/EducationOS/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode     bool
		listenAddr    string
		metricsAddr   string
		dbDSN         string
		googleTimeout time.Duration
		shutdownGrace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long: `Start the HTTP API server. Configuration comes from EDUOS_* environment
variables; flags override them.

The server needs a PostgreSQL database (EDUOS_DB_DSN or the discrete
EDUOS_DB_* variables). Embedded migrations are applied on startup.
Prometheus metrics are served on a dedicated listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The DSN flag has to land before Load, which refuses to
			// run without one.
			if cmd.Flags().Changed("db-dsn") {
				os.Setenv("EDUOS_DB_DSN", dbDSN)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("listen-addr") {
				cfg.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("google-timeout") {
				cfg.Google.Timeout = googleTimeout
			}
			if cmd.Flags().Changed("shutdown-grace") {
				cfg.ShutdownGrace = shutdownGrace
			}

			return runServe(cfg, debugMode)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&listenAddr, "listen-addr", ":8080", "API server address. Can also use EDUOS_LISTEN_ADDR env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use EDUOS_METRICS_ADDR env var.")
	cmd.Flags().StringVar(&dbDSN, "db-dsn", "", "PostgreSQL connection string. Can also use EDUOS_DB_DSN env var.")
	cmd.Flags().DurationVar(&googleTimeout, "google-timeout", 30*time.Second, "Timeout for outbound Google API calls. Can also use EDUOS_GOOGLE_TIMEOUT env var.")
	cmd.Flags().DurationVar(&shutdownGrace, "shutdown-grace", 15*time.Second, "Time allowed for in-flight requests during shutdown. Can also use EDUOS_SHUTDOWN_GRACE env var.")

	return cmd
}

func runServe(cfg *config.Config, debugMode bool) error {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	pool, err := store.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	st := store.New(pool)
	defer st.Close()

	if err := store.ApplyMigrations(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	resolver := google.NewResolver(st.Tokens, logger, provider.Metrics(), cfg.Google.Timeout)
	srv := server.New(st, resolver, provider.Metrics(), logger, cfg.TrustedProxies)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsServer *server.MetricsServer
	if provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(cfg.MetricsAddr, provider, logger)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		logger.Info("starting API server", slog.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("API server stopped with error: %w", err)
		}
		return nil
	}

	// Fail readiness before draining in-flight requests.
	srv.Health().SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down API server: %w", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down metrics server", logging.Err(err))
		}
	}

	logger.Info("server gracefully stopped")
	return nil
}
