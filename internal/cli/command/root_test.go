package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/shardtab/internal/infra/buildinfo"
	"github.com/yndnr/shardtab/internal/telemetry/logger"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}
	if app.Name != "shardtab" {
		t.Errorf("Name = %q, want %q", app.Name, "shardtab")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"bench", "intern", "serve", "version"} {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"config", "log-level", "output", "wide", "quiet"} {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestApp_UnknownOutput(t *testing.T) {
	_, _, err := runApp(t, nil, "", "--output", "xml", "version")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("err = %v, want unknown output format", err)
	}
}

func TestApp_InvalidLogLevel(t *testing.T) {
	_, _, err := runApp(t, nil, "", "--log-level", "loud", "version")
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("err = %v, want load config error", err)
	}
}

func TestApp_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shardtab.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runApp(t, nil, "", "--config", path, "version"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := logger.GetLevel(); got != "debug" {
		t.Errorf("level = %q, want debug", got)
	}

	if _, _, err := runApp(t, nil, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runApp(t, nil, "", "-o", "json", "version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("info = %+v, want version and go version", info)
	}

	out, _, err = runApp(t, nil, "", "version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "VERSION") && !strings.Contains(out, "version") {
		t.Errorf("table output missing version row:\n%s", out)
	}
}
