package config

import (
	"io"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// fileCache and fileServer mirror the config file layout with durations
// spelled as strings ("30m") rather than nanoseconds.
type fileCache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	TTL           string `toml:"ttl"`
}

type fileServer struct {
	Addr            string `toml:"addr"`
	SessionTTL      string `toml:"session_ttl"`
	CleanupInterval string `toml:"cleanup_interval"`
}

type fileConfig struct {
	Axis           string     `toml:"axis"`
	UnitWidth      float64    `toml:"unit_width"`
	UnitHeight     float64    `toml:"unit_height"`
	ViewportWidth  float64    `toml:"viewport_width"`
	ViewportHeight float64    `toml:"viewport_height"`
	ContentInset   float64    `toml:"content_inset"`
	Eager          bool       `toml:"eager"`
	Strict         bool       `toml:"strict"`
	Cache          fileCache  `toml:"cache"`
	Server         fileServer `toml:"server"`
}

// Encode writes c as a config file that Init can read back.
func (c Config) Encode(w io.Writer) error {
	doc := fileConfig{
		Axis:           c.Axis,
		UnitWidth:      c.UnitWidth,
		UnitHeight:     c.UnitHeight,
		ViewportWidth:  c.ViewportWidth,
		ViewportHeight: c.ViewportHeight,
		ContentInset:   c.ContentInset,
		Eager:          c.Eager,
		Strict:         c.Strict,
		Cache: fileCache{
			Backend:       c.Cache.Backend,
			Dir:           c.Cache.Dir,
			RedisAddr:     c.Cache.RedisAddr,
			RedisPassword: c.Cache.RedisPassword,
			RedisDB:       c.Cache.RedisDB,
			Prefix:        c.Cache.Prefix,
			TTL:           c.Cache.TTL.String(),
		},
		Server: fileServer{
			Addr:            c.Server.Addr,
			SessionTTL:      c.Server.SessionTTL.String(),
			CleanupInterval: c.Server.CleanupInterval.String(),
		},
	}
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(doc)
}

// WriteFile writes c to path. An existing file is kept unless overwrite is
// set.
func (c Config) WriteFile(path string, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists; use --force to overwrite", path)
		}
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
