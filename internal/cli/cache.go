package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/config"
	"github.com/matzehuels/mosaic/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout snapshot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layout snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled (backend %q)", c.cfg.Cache.Backend)
				return nil
			}

			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			switch b := backend.(type) {
			case *cache.FileCache:
				printDetail("Directory: %s", b.Dir())
			case *cache.RedisCache:
				printDetail("Redis: %s", c.cfg.Cache.RedisAddr)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.BackendRedis {
				fmt.Println("redis://" + c.cfg.Cache.RedisAddr)
				return nil
			}
			dir := c.cfg.Cache.Dir
			if dir == "" {
				var err error
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Println(dir)
			return nil
		},
	}
}
