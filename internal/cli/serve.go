package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/server"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mission graphs and dependency edits over HTTP",
		Long: `Serve mission graphs and dependency edits over HTTP.

Routes:
  GET    /healthz
  GET    /missions
  PUT    /missions/{mission}
  GET    /missions/{mission}/graph
  GET    /missions/{mission}/graph.{format}
  POST   /missions/{mission}/dependencies
  DELETE /missions/{mission}/dependencies?source=..&target=..&confirm=true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.WithoutCancel(ctx))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := c.Config.Server
	srv := server.New(st, runner, c.Logger,
		server.WithLayout(c.Config.Layout),
		server.WithMutationTimeout(cfg.MutationTimeout),
	)

	printSuccess("Listening on %s", cfg.Addr)
	printKeyValue("Store", c.Config.Store.Backend)
	printKeyValue("Cache", c.Config.Cache.Backend)

	prog := newProgress(loggerFromContext(ctx))
	if err := srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout); err != nil {
		return err
	}
	prog.done("Server stopped")
	return nil
}
