package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spellcaster/grimoire/internal/logging"
	"github.com/spellcaster/grimoire/internal/server"
	"github.com/spellcaster/grimoire/internal/ui"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the index over HTTP. Endpoints live under /api: search, facets,
documents, reindex and health. Stops cleanly on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := openEnv()
			if err != nil {
				return err
			}
			defer st.Close()
			seedFacets(cmd.Context(), st)

			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			// Long-running process: log to the rotating file at the
			// configured level even without --debug.
			if !debugMode {
				logCfg := logging.DefaultConfig()
				logCfg.Level = cfg.Server.LogLevel
				logCfg.WriteToStderr = false
				logger, cleanup, err := logging.Setup(logCfg)
				if err != nil {
					return err
				}
				loggingCleanup = cleanup
				slog.SetDefault(logger)
			}

			srv := server.New(cfg, st, newReindexer(cfg, st))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Successf("Serving on http://%s:%d", cfg.Server.Host, cfg.Server.Port)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")

	return cmd
}
