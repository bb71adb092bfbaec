package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/pkg/bridge"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo pages live",
		Long: `Serve the demo pages over HTTP and keep them live over websockets.

Every page load builds a fresh page tree. Clicks in the browser run the
page's handlers on the server and the resulting changes are sent back as
change records.

Examples:
  loom serve
  loom serve --port=8080
  loom serve --config=loom.yaml --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default ./loom.yaml if present)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	opts, err := bridgeOptions(cfg, logger)
	if err != nil {
		return err
	}

	h := bridge.NewHandler(opts)
	defer h.Close()
	for pattern, fn := range demo.Routes() {
		h.Page(pattern, fn)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	success(cmd, "Serving on http://%s", cfg.Address())
	if cfg.Metrics.Enabled {
		info(cmd, "Metrics at http://%s%s", cfg.Address(), cfg.Metrics.Path)
	}
	logger.Info("server started",
		"addr", cfg.Address(),
		"encoding", cfg.Bridge.Encoding,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled)

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Address(), err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n  Shutting down...")
	timeout := config.Duration(cfg.Server.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Live sessions are hijacked connections; Shutdown does not wait for
	// them, so close them first.
	h.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
