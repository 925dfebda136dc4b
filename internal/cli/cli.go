// Package cli implements the mosaic command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/mosaic/internal/config"
	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mosaic"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgFile string
	cfg     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mosaic packs variable-size items into a scrollable grid",
		Long: `Mosaic is a virtualized mosaic grid layout engine. It packs sequential items
of varying footprints into a grid that is bounded across and unbounded along
the scroll direction, and answers "which items are visible here?" lazily.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(c.cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default .mosaic.toml)")
	bindLayoutFlags(root.PersistentFlags())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// layoutFlags maps persistent flags to their config keys. Flags take
// precedence over the config file and environment only when set.
var layoutFlags = []struct {
	flag, key string
}{
	{"axis", "axis"},
	{"unit-width", "unit_width"},
	{"unit-height", "unit_height"},
	{"viewport-width", "viewport_width"},
	{"viewport-height", "viewport_height"},
	{"content-inset", "content_inset"},
	{"eager", "eager"},
	{"strict", "strict"},
	{"cache-backend", "cache.backend"},
}

// bindLayoutFlags registers the layout flags shared by every command.
func bindLayoutFlags(fs *pflag.FlagSet) {
	fs.String("axis", pipeline.DefaultAxis, "scroll direction: vertical, horizontal")
	fs.Float64("unit-width", pipeline.DefaultUnit, "pixel width of one grid unit")
	fs.Float64("unit-height", pipeline.DefaultUnit, "pixel height of one grid unit")
	fs.Float64("viewport-width", pipeline.DefaultViewportWidth, "viewport width in pixels")
	fs.Float64("viewport-height", pipeline.DefaultViewportHeight, "viewport height in pixels")
	fs.Float64("content-inset", 0, "uniform inset subtracted from the viewport")
	fs.Bool("eager", false, "pack the whole manifest on the first query")
	fs.Bool("strict", false, "panic on layout invariant violations")
	fs.String("cache-backend", config.BackendFile, "snapshot cache: file, redis, none")

	for _, f := range layoutFlags {
		_ = viper.BindPFlag(f.key, fs.Lookup(f.flag))
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(backend, nil, c.Logger)
	if c.cfg.Cache.TTL > 0 {
		r.TTL = c.cfg.Cache.TTL
	}
	return r, nil
}

// newCache opens the configured snapshot cache. An unreachable Redis falls
// back to no caching with a warning rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
			Prefix:   c.cfg.Cache.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir := c.cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mosaic/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
