package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoshelf/pkg/api"
	"github.com/matzehuels/chronoshelf/pkg/store"
)

// serveCommand runs the HTTP API until the process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve layouts, renders and snapshots over HTTP.

The cache backend comes from the config file (file, redis or none). Snapshots
are kept in MongoDB when store.mongo_uri is set and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.settings().Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg := c.settings()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	st, err := store.Open(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer st.Close()

	backend := "memory"
	if cfg.Store.MongoURI != "" {
		backend = "mongo"
	}
	c.Logger.Info("starting server", "cache", cfg.Cache.Backend, "store", backend)

	srv := api.New(runner, st, c.Logger,
		api.WithDefaultWidth(cfg.Width),
		api.WithDefaultEpoch(cfg.Epoch),
	)
	return srv.ListenAndServe(ctx, addr)
}
