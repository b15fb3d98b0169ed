package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wozniakbe/exhibit-prefs/prefs/httpdoc"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var (
		configPath string
		cfg        Config
	)

	root := &cobra.Command{
		Use:          "exhibit-prefs",
		Short:        "Cookie-backed exhibit preferences",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("PREFS_CONFIG")
			}
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	config := func() Config { return cfg }
	root.AddCommand(
		newServeCmd(config),
		newGetCmd(fs, config),
		newSetCmd(fs, config),
		newDeleteCmd(fs, config),
		newListCmd(fs, config),
		newWatchCmd(fs, config),
	)
	return root
}

func newLogger(cfg Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func newServeCmd(config func() Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the preferences HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config())
		},
	}
}

func serve(cfg Config) error {
	logger := newLogger(cfg)

	sameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return err
	}
	handler := NewPreferencesHandler(cfg.CookieTTLDays, logger,
		httpdoc.WithSecure(cfg.CookieSecure),
		httpdoc.WithSameSite(sameSite),
	)
	router := NewRouter(handler, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "auth", cfg.JWTSecret != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
