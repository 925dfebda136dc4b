package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/mosaic/internal/server"
	"github.com/matzehuels/mosaic/pkg/session"
)

// serveCommand creates the serve command for hosting layout sessions.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host layout sessions over HTTP",
		Long: `Host layout sessions over HTTP.

Clients create a session from a manifest, then query frames for the
rectangle they are about to show. Sessions expire after server.session_ttl of
inactivity. One-shot layouts at POST /layout share the snapshot cache with the
layout command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			defaults := c.cfg.PipelineOptions()
			defaults.Logger = c.Logger

			srv := server.New(server.Config{
				Addr:            c.cfg.Server.Addr,
				SessionTTL:      c.cfg.Server.SessionTTL,
				CleanupInterval: c.cfg.Server.CleanupInterval,
				Defaults:        defaults,
			}, session.NewMemoryStore(), runner, c.Logger)

			c.Logger.Info("listening", "addr", c.cfg.Server.Addr, "cache", c.cfg.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the snapshot cache")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
