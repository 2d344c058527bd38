package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/logging"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	s := cfg.TrackerSettings()
	if s.ZIndex != 9999 || s.Strategy != anchor.Absolute || s.Delay != 0 {
		t.Errorf("TrackerSettings() = %+v", s)
	}
	if cfg.FrameInterval() != 16*time.Millisecond {
		t.Errorf("FrameInterval() = %v", cfg.FrameInterval())
	}
	if cfg.Debounce() != 100*time.Millisecond {
		t.Errorf("Debounce() = %v", cfg.Debounce())
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.Beacons.Route != "/" {
		t.Errorf("Route = %q", cfg.Beacons.Route)
	}
}

func TestLoadReader(t *testing.T) {
	cfg, err := LoadReader(strings.NewReader(`
[tracker]
z_index = 50
delay_ms = 250
strategy = "fixed"

[logging]
level = "debug"

[document]
path = "page.html"
watch = true

[beacons]
path = "beacons.yaml"
route = "/checkout"

[viewer]
scale = 8.0
`))
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	s := cfg.TrackerSettings()
	if s.ZIndex != 50 || s.Delay != 250*time.Millisecond || s.Strategy != anchor.Fixed {
		t.Errorf("TrackerSettings() = %+v", s)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.Document.Path != "page.html" || !cfg.Document.Watch {
		t.Errorf("Document = %+v", cfg.Document)
	}
	if cfg.Document.DebounceMS != 100 {
		t.Errorf("unset debounce_ms lost its default: %d", cfg.Document.DebounceMS)
	}
	if cfg.Beacons.Route != "/checkout" || cfg.Viewer.Scale != 8 {
		t.Errorf("Beacons = %+v Viewer = %+v", cfg.Beacons, cfg.Viewer)
	}
}

func TestLoadReader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantPos  bool
		wantPath string
	}{
		{"syntax", "[tracker\nz_index = 1", true, ""},
		{"unknown key", "[tracker]\nzindex = 1", false, ""},
		{"bad strategy", "[tracker]\nstrategy = \"sticky\"", false, "tracker.strategy"},
		{"bad level", "[logging]\nlevel = \"loud\"", false, "logging.level"},
		{"negative delay", "[tracker]\ndelay_ms = -1", false, "tracker.delay_ms"},
		{"zero scale", "[viewer]\nscale = 0.0", false, "viewer.scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("LoadReader() error = nil")
			}
			if tt.wantPath != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Path != tt.wantPath {
					t.Errorf("error = %v, want ValidationError for %s", err, tt.wantPath)
				}
				return
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if tt.wantPos && pe.Line < 1 {
				t.Errorf("Line = %d, want a position", pe.Line)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envOf(map[string]string{
		"REPERE_LOG_LEVEL": "WARN",
		"REPERE_DOCUMENT":  "/tmp/page.html",
		"REPERE_BEACONS":   "/tmp/b.yaml",
		"REPERE_ROUTE":     "/account/1",
		"REPERE_STRATEGY":  "Fixed",
		"REPERE_Z_INDEX":   "12",
		"REPERE_WATCH":     "yes",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.LogLevel() != logging.LevelWarn {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.Document.Path != "/tmp/page.html" || !cfg.Document.Watch {
		t.Errorf("Document = %+v", cfg.Document)
	}
	if cfg.Beacons.Path != "/tmp/b.yaml" || cfg.Beacons.Route != "/account/1" {
		t.Errorf("Beacons = %+v", cfg.Beacons)
	}
	if cfg.Tracker.Strategy != "fixed" || cfg.Tracker.ZIndex != 12 {
		t.Errorf("Tracker = %+v", cfg.Tracker)
	}

	err = Default().ApplyEnv(envOf(map[string]string{"REPERE_Z_INDEX": "high"}))
	if !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("ApplyEnv(bad int) error = %v, want ErrInvalidEnv", err)
	}
	if err := Default().ApplyEnv(noEnv); err != nil {
		t.Errorf("ApplyEnv(empty) error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repere.toml")
	if err := os.WriteFile(path, []byte("[tracker]\nz_index = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REPERE_ROUTE", "/from-env")
	t.Setenv("REPERE_Z_INDEX", "4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tracker.ZIndex != 4 {
		t.Errorf("ZIndex = %d, want env to win over file", cfg.Tracker.ZIndex)
	}
	if cfg.Beacons.Route != "/from-env" {
		t.Errorf("Route = %q", cfg.Beacons.Route)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err != nil {
		t.Errorf("Load(missing) error = %v, want defaults", err)
	}

	t.Setenv("REPERE_STRATEGY", "sideways")
	if _, err := Load(""); err == nil {
		t.Error("Load() accepted an invalid strategy from the environment")
	}
}

func TestEnvVars(t *testing.T) {
	names := EnvVars()
	if !sort.StringsAreSorted(names) {
		t.Errorf("EnvVars() = %v, want sorted", names)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, EnvPrefix) {
			t.Errorf("%s lacks prefix %s", name, EnvPrefix)
		}
	}
}

func TestApplyEnv_FirstInvalidInNameOrder(t *testing.T) {
	env := envOf(map[string]string{
		"REPERE_Z_INDEX":  "high",
		"REPERE_WATCH":    "maybe",
		"REPERE_DELAY_MS": "soon",
	})
	for i := 0; i < 20; i++ {
		err := Default().ApplyEnv(env)
		if err == nil || !strings.Contains(err.Error(), "REPERE_DELAY_MS") {
			t.Fatalf("ApplyEnv() error = %v, want REPERE_DELAY_MS reported", err)
		}
	}
}
