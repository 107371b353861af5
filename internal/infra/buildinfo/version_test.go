package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.BuildTime == "" {
		t.Error("BuildTime should not be empty")
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q, want go prefix", info.GoVersion)
	}
}

func TestResolve_NilBuildInfo(t *testing.T) {
	in := Info{Version: "dev", Commit: "unknown", BuildTime: "unknown", GoVersion: "go1.24.0"}
	if got := resolve(in, nil); got != in {
		t.Errorf("resolve(nil) = %+v, want %+v", got, in)
	}
}

func TestResolve_FillsFromVCS(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.4",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := resolve(Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}, bi)

	want := Info{
		Version:   "v0.3.0",
		Commit:    "0123456789ab",
		BuildTime: "2025-01-02T03:04:05Z",
		GoVersion: "go1.24.4",
		Modified:  true,
	}
	if got != want {
		t.Errorf("resolve() = %+v, want %+v", got, want)
	}
}

func TestResolve_LdflagsWin(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffffffff"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	}
	in := Info{Version: "v1.0.0", Commit: "abc123", BuildTime: "today", GoVersion: "go1.24.0"}
	got := resolve(in, bi)
	if got.Version != "v1.0.0" || got.Commit != "abc123" || got.BuildTime != "today" {
		t.Errorf("resolve() overwrote ldflags values: %+v", got)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.2.3", Commit: "abc", BuildTime: "now", GoVersion: "go1.24.4"}
	want := "v1.2.3 (abc) built at now with go1.24.4"
	if s := info.String(); s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}

	info.Modified = true
	if s := info.String(); !strings.Contains(s, "(abc-dirty)") {
		t.Errorf("String() = %q, want dirty marker", s)
	}
}

func TestString(t *testing.T) {
	if s := String(); s != Get().String() {
		t.Errorf("String() = %q, want %q", s, Get().String())
	}
}
