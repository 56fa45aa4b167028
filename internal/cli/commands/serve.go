package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/soghomon-b/g2p/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Start an HTTP server exposing the conversion API:

  GET /api/v1/g2p?in-lang=&out-lang=&text=[&index=true][&debugger=true]
  GET /api/v1/langs
  GET /api/v1/descendants/{node}
  GET /api/v1/ancestors/{node}
  GET /api/v1/events
  GET /healthz

With --watch, the mapping network is rebuilt whenever a file in the mappings
directory changes. A failed rebuild keeps the previous network. Clients
connected to /api/v1/events receive a "reload" event after each rebuild.`,
		Example: `  # Serve on the default port
  g2p serve

  # Serve on a custom port without watching
  g2p serve --port 8080 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Values are read through the config layer (server.port, server.watch).
	cmd.Flags().Int("port", 0, "Port to serve on (default: 5000)")
	cmd.Flags().Bool("watch", true, "Reload mappings when files change")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if err := cfg.ValidateDirectories(); err != nil {
		return err
	}

	srv, err := server.NewServer(server.Config{
		Loader:      cmdCtx.Loader(),
		MappingsDir: cfg.MappingsDir,
		Port:        cfg.Server.Port,
		Watch:       cfg.Server.Watch,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
