// Package config loads mosaic's runtime configuration.
//
// Values come from, in increasing precedence: built-in defaults, a
// .mosaic.toml file (current directory, then home), MOSAIC_* environment
// variables, and command-line flags bound by the CLI. Nested keys map to
// environment variables with underscores, so cache.backend is read from
// MOSAIC_CACHE_BACKEND.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/session"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "MOSAIC"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// CacheConfig selects and configures the snapshot cache.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures the HTTP layout host.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Config holds all runtime configuration.
type Config struct {
	Axis           string       `mapstructure:"axis"`
	UnitWidth      float64      `mapstructure:"unit_width"`
	UnitHeight     float64      `mapstructure:"unit_height"`
	ViewportWidth  float64      `mapstructure:"viewport_width"`
	ViewportHeight float64      `mapstructure:"viewport_height"`
	ContentInset   float64      `mapstructure:"content_inset"`
	Eager          bool         `mapstructure:"eager"`
	Strict         bool         `mapstructure:"strict"`
	Cache          CacheConfig  `mapstructure:"cache"`
	Server         ServerConfig `mapstructure:"server"`
}

// Init points viper at the config file and environment. An empty cfgFile
// searches for .mosaic.toml in the working directory and home. A missing
// file is not an error; an unreadable explicit file is.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".mosaic")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("axis", pipeline.DefaultAxis)
	viper.SetDefault("unit_width", pipeline.DefaultUnit)
	viper.SetDefault("unit_height", pipeline.DefaultUnit)
	viper.SetDefault("viewport_width", pipeline.DefaultViewportWidth)
	viper.SetDefault("viewport_height", pipeline.DefaultViewportHeight)
	viper.SetDefault("content_inset", 0.0)
	viper.SetDefault("eager", false)
	viper.SetDefault("strict", false)
	viper.SetDefault("cache.backend", BackendFile)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.redis_password", "")
	viper.SetDefault("cache.redis_db", 0)
	viper.SetDefault("cache.prefix", "mosaic:")
	viper.SetDefault("cache.ttl", "168h")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.session_ttl", session.DefaultTTL.String())
	viper.SetDefault("server.cleanup_interval", session.DefaultCleanupInterval.String())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	opts := c.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.session_ttl must be positive")
	}
	return nil
}

// PipelineOptions returns layout options seeded from the configuration.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Axis:           c.Axis,
		UnitWidth:      c.UnitWidth,
		UnitHeight:     c.UnitHeight,
		ViewportWidth:  c.ViewportWidth,
		ViewportHeight: c.ViewportHeight,
		ContentInset:   c.ContentInset,
		Eager:          c.Eager,
		Strict:         c.Strict,
	}
}
