package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/log"
	"github.com/nao1215/jpfill/internal/server"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fill engine over HTTP",
		Long: `Serve starts an HTTP API that fills HTML sent by other tools.

Endpoints:
  GET  /health          liveness and version
  POST /api/v1/fill     {"html": "...", "url": "...", "settings": {...}}
  POST /api/v1/clear    {"html": "..."}

The url field only selects the page context and per-site settings; the
page is never fetched.

Examples:
  # Listen on the default address
  jpfill serve

  # Listen on localhost only, with reproducible data
  jpfill serve --addr 127.0.0.1:9000 --seed 42`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddress,
		"Address to listen on")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jpfill in current or home directory)")
	cmd.Flags().Uint64P("seed", "s", 0,
		"Seed for reproducible data (0 picks a random seed per request)")
	cmd.Flags().DurationP("settle-timeout", "S", config.DefaultSettleTimeout,
		"How long each request waits for widget writes to settle")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum request body size in bytes")
	cmd.Flags().Bool("json-log", false,
		"Write logs as JSON")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.ListenAddress, err = cmd.Flags().GetString("addr"); err != nil {
		return err
	}
	if cfg.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
		return err
	}
	if cfg.SettleTimeout, err = cmd.Flags().GetDuration("settle-timeout"); err != nil {
		return err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}
	if cfg.File, err = loadSettingsFile(cfg.ConfigFilePath); err != nil {
		return err
	}
	jsonLog, err := cmd.Flags().GetBool("json-log")
	if err != nil {
		return err
	}

	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if jsonLog {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
	return runServe(ctx, cfg, logger, ln)
}

// runServe serves the API on ln until ctx is done, then shuts down
// gracefully.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, ln net.Listener) error {
	handler := server.New(
		server.WithLogger(logger),
		server.WithConfigFile(cfg.File),
		server.WithSeed(cfg.Seed),
		server.WithSettleTimeout(cfg.SettleTimeout),
		server.WithMaxBodySize(cfg.MaxBodySize),
		server.WithVersion(getVersion()),
	)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Timeout,
		WriteTimeout:      cfg.Timeout + cfg.SettleTimeout,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
