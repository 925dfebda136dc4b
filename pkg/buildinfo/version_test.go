package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	if got := Get().Version; got != "v1.2.3" {
		t.Errorf("Get().Version = %q, want v1.2.3", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", Version, Commit, Date} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
