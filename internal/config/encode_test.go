package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
)

func TestEncode_RoundTrip(t *testing.T) {
	resetViper()
	t.Chdir(t.TempDir())
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want.Axis = "horizontal"
	want.Cache.Backend = BackendRedis
	want.Server.SessionTTL = 45 * time.Minute

	path := filepath.Join(t.TempDir(), "out.toml")
	if err := want.WriteFile(path, false); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	resetViper()
	if err := Init(path); err != nil {
		t.Fatalf("Init(%s): %v", path, err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip changed config:\n got %+v\nwant %+v", got, want)
	}
}

func TestEncode_DurationsAsStrings(t *testing.T) {
	cfg := Config{Cache: CacheConfig{TTL: 2 * time.Hour}, Server: ServerConfig{SessionTTL: 30 * time.Minute}}
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2h0m0s", "30m0s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("encoded config missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWriteFile_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	cfg := Config{Axis: "vertical"}
	if err := cfg.WriteFile(path, false); err != nil {
		t.Fatal(err)
	}
	err := cfg.WriteFile(path, false)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second write error = %v, want INVALID_INPUT", err)
	}
	if err := cfg.WriteFile(path, true); err != nil {
		t.Errorf("overwrite: %v", err)
	}
}
