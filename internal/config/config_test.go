package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Axis", cfg.Axis, "vertical"},
		{"UnitWidth", cfg.UnitWidth, 100.0},
		{"UnitHeight", cfg.UnitHeight, 100.0},
		{"ViewportWidth", cfg.ViewportWidth, 800.0},
		{"ViewportHeight", cfg.ViewportHeight, 600.0},
		{"Eager", cfg.Eager, false},
		{"Cache.Backend", cfg.Cache.Backend, BackendFile},
		{"Cache.RedisAddr", cfg.Cache.RedisAddr, "localhost:6379"},
		{"Cache.TTL", cfg.Cache.TTL, 168 * time.Hour},
		{"Server.Addr", cfg.Server.Addr, ":8080"},
		{"Server.SessionTTL", cfg.Server.SessionTTL, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "axis",
			envKey: "MOSAIC_AXIS",
			envVal: "horizontal",
			field:  func(c Config) any { return c.Axis },
			want:   "horizontal",
		},
		{
			name:   "unit_width",
			envKey: "MOSAIC_UNIT_WIDTH",
			envVal: "64",
			field:  func(c Config) any { return c.UnitWidth },
			want:   64.0,
		},
		{
			name:   "eager",
			envKey: "MOSAIC_EAGER",
			envVal: "true",
			field:  func(c Config) any { return c.Eager },
			want:   true,
		},
		{
			name:   "cache.backend",
			envKey: "MOSAIC_CACHE_BACKEND",
			envVal: "redis",
			field:  func(c Config) any { return c.Cache.Backend },
			want:   "redis",
		},
		{
			name:   "server.addr",
			envKey: "MOSAIC_SERVER_ADDR",
			envVal: "127.0.0.1:9000",
			field:  func(c Config) any { return c.Server.Addr },
			want:   "127.0.0.1:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			t.Setenv(tt.envKey, tt.envVal)
			t.Chdir(t.TempDir())
			if err := Init(""); err != nil {
				t.Fatalf("Init: %v", err)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()
	path := filepath.Join(t.TempDir(), "mosaic.toml")
	data := `axis = "horizontal"
viewport_height = 300.0

[cache]
backend = "none"

[server]
session_ttl = "5m"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Axis != "horizontal" || cfg.ViewportHeight != 300 || cfg.Cache.Backend != BackendNone {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if cfg.Server.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, want 5m", cfg.Server.SessionTTL)
	}
}

func TestLoad_SampleConfig(t *testing.T) {
	resetViper()
	if err := Init(filepath.Join("..", "..", "examples", "mosaic.toml")); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Cache.TTL != 168*time.Hour || cfg.Server.CleanupInterval != time.Minute {
		t.Errorf("sample config durations not parsed: %+v", cfg)
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	resetViper()
	err := Init(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Init error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"cache.backend", "memcached"},
		{"axis", "diagonal"},
		{"unit_width", -1.0},
		{"viewport_width", -10.0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s = %v", tt.key, tt.val)
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	resetViper()
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.PipelineOptions()
	if opts.ViewportWidth != cfg.ViewportWidth || opts.Axis != cfg.Axis {
		t.Errorf("PipelineOptions = %+v", opts)
	}
}
