package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

const scenarioManifest = `[[group]]
name = "scenario"

  [[group.item]]
  w = 2
  h = 1

  [[group.item]]
  w = 1
  h = 1

  [[group.item]]
  w = 1
  h = 1

  [[group.item]]
  w = 1
  h = 1
`

// runCLI executes the root command with args in a fresh working directory
// and returns what the command wrote to its output stream.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	t.Chdir(dir)

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.toml")
	if err := os.WriteFile(path, []byte(scenarioManifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decodeSnapshot(t *testing.T, data string) pipeline.Snapshot {
	t.Helper()
	var snap pipeline.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, data)
	}
	return snap
}

func TestGenerateThenLayout(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCLI(t, dir, "generate", "-n", "50", "-o", "gen.toml"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen.toml")); err != nil {
		t.Fatalf("generated manifest missing: %v", err)
	}

	out, err := runCLI(t, dir, "layout", "gen.toml", "--format", "json")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	snap := decodeSnapshot(t, out)
	if len(snap.Frames) != 50 {
		t.Errorf("got %d frames, want 50", len(snap.Frames))
	}
	if snap.Capacity != 8 {
		t.Errorf("capacity = %d, want 8 (800px / 100px)", snap.Capacity)
	}
}

func TestLayoutScenarioText(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)

	out, err := runCLI(t, dir, "layout", "scenario.toml", "--viewport-width", "400", "--cache-backend", "none")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	want := "# axis=vertical capacity=4 items=4"
	if !strings.HasPrefix(out, want) {
		t.Errorf("header = %q, want prefix %q", out, want)
	}
	if !strings.Contains(out, "\n0012\n3...\n") {
		t.Errorf("grid not as expected:\n%s", out)
	}
}

func TestLayoutConfigPrecedence(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "config file", want: 4},
		{name: "flag overrides file", args: []string{"--viewport-width", "300"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeScenario(t, dir)
			cfg := "viewport_width = 400.0\n\n[cache]\nbackend = \"none\"\n"
			if err := os.WriteFile(filepath.Join(dir, ".mosaic.toml"), []byte(cfg), 0644); err != nil {
				t.Fatal(err)
			}

			args := append([]string{"layout", "scenario.toml", "-f", "json"}, tt.args...)
			out, err := runCLI(t, dir, args...)
			if err != nil {
				t.Fatalf("layout: %v", err)
			}
			if got := decodeSnapshot(t, out).Capacity; got != tt.want {
				t.Errorf("capacity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayoutRect(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "generate", "-n", "500", "-o", "big.json"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, err := runCLI(t, dir, "layout", "big.json", "-f", "json", "--rect", "0,0,800,100")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	snap := decodeSnapshot(t, out)
	if snap.Rect == nil {
		t.Fatal("snapshot should record the query rect")
	}
	if len(snap.Frames) == 0 || len(snap.Frames) >= 500 {
		t.Errorf("got %d frames, want a proper subset of 500", len(snap.Frames))
	}
	if snap.Stats.Packed >= 500 {
		t.Errorf("packed %d items, rect query should pack lazily", snap.Stats.Packed)
	}
}

func TestLayoutWritesFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)

	if _, err := runCLI(t, dir, "layout", "scenario.toml", "-o", "out.json"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	snap := decodeSnapshot(t, string(data))
	if len(snap.Frames) != 4 {
		t.Errorf("got %d frames, want 4", len(snap.Frames))
	}

	// The snapshot was cached under XDG_CACHE_HOME.
	entries, err := os.ReadDir(filepath.Join(dir, ".cache", appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("expected cache entries after layout, err=%v", err)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{name: "bad format", args: []string{"layout", "scenario.toml", "-f", "xml"}, code: errors.ErrCodeInvalidInput},
		{name: "bad rect", args: []string{"layout", "scenario.toml", "--rect", "1,2,3"}, code: errors.ErrCodeInvalidRect},
		{name: "bad axis", args: []string{"layout", "scenario.toml", "--axis", "diagonal"}, code: errors.ErrCodeInvalidAxis},
		{name: "bad backend", args: []string{"layout", "scenario.toml", "--cache-backend", "s3"}, code: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeScenario(t, dir)

			_, err := runCLI(t, dir, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error %v should carry code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutMissingManifest(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "layout", "nope.toml"); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestFrameCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "by id", args: []string{"frame", "scenario.toml", "0.3"}},
		{name: "by cell", args: []string{"frame", "scenario.toml", "--cell", "2,0"}},
		{name: "empty cell", args: []string{"frame", "scenario.toml", "--cell", "7,7"}},
		{name: "unknown item", args: []string{"frame", "scenario.toml", "0.9"}, wantErr: true},
		{name: "bad id", args: []string{"frame", "scenario.toml", "x"}, wantErr: true},
		{name: "no target", args: []string{"frame", "scenario.toml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeScenario(t, dir)

			_, err := runCLI(t, dir, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    mosaic.Cell
		wantErr bool
	}{
		{in: "0,0", want: mosaic.Cell{}},
		{in: " 3, 12 ", want: mosaic.Cell{X: 3, Y: 12}},
		{in: "3", wantErr: true},
		{in: "-1,2", wantErr: true},
		{in: "a,b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCell(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseCell(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateRejectsNegativeCount(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "generate", "-n", "-5"); err == nil {
		t.Fatal("expected error for negative count")
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir)

	if _, err := runCLI(t, dir, "layout", "scenario.toml", "-o", "out.txt"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := runCLI(t, dir, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, ".cache", appName))
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("cache entry %s survived clear", e.Name())
		}
	}
}

func TestConfigShowAndInit(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "config", "show", "--axis", "horizontal")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "horizontal") || !strings.Contains(out, "[cache]") {
		t.Errorf("config show output:\n%s", out)
	}

	if _, err := runCLI(t, dir, "config", "init", "--viewport-width", "500"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCLI(t, dir, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite without --force")
	}

	writeScenario(t, dir)
	out, err = runCLI(t, dir, "layout", "scenario.toml", "-f", "json", "--cache-backend", "none")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if got := decodeSnapshot(t, out).Capacity; got != 5 {
		t.Errorf("capacity from written config = %d, want 5", got)
	}
}
