package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqllab/internal/cli/config"
	"github.com/leapstack-labs/sqllab/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SQL Lab API server",
		Long: `Start the HTTP server exposing the SQL Lab bootstrap and tab APIs.

Endpoints:
- POST   /api/v1/session             start a session for a user
- POST   /api/v1/sqllab/bootstrap    compute the initial workspace state
- GET    /api/v1/tabs                list tabs
- GET    /api/v1/events              change notifications (SSE)

With --watch, edits to the config file reload the editor defaults without
a restart.`,
		Example: `  # Start on the configured port
  sqllab serve

  # Start on a custom port and reload config on change
  sqllab serve --port 9000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload editor defaults when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	// CLI flags override config file
	port := cfg.Server.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("server.session_secret not set, sessions will not survive a restart")
	}

	configFile := config.GetConfigFileUsed()
	if watch && configFile == "" {
		logger.Warn("no config file found, --watch has nothing to watch")
	}

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.NewServer(server.Config{
		Store:           store,
		Port:            port,
		Watch:           watch,
		SessionSecret:   secret,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ConfigFile:      configFile,
		SQLLab:          cfg.SQLLab,
		Logger:          logger,
	})

	cmdCtx.Renderer.Printf("Starting server on http://localhost:%d\n", port)
	cmdCtx.Renderer.Muted("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
