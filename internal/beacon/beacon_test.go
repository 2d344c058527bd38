package beacon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/repere/internal/anchor"
)

const definitions = `
trigger:
  anchor: bottom-right
  z_index: 100
  delay_ms: 50
popover:
  anchor: top-left
  offset: {x: 0, y: 8}
pages:
  - id: all
    path: "*"
    beacons:
      - id: help
        selector: "#help"
        label: Need help?
  - id: checkout
    path: /checkout/*
    beacons:
      - id: pay
        selector: "#pay"
        trigger:
          anchor: top-center
          offset: {x: 4, y: -2}
          z_index: 0
          strategy: fixed
        popover:
          anchor: bottom-center
      - id: help
        selector: "#other-help"
  - id: account
    path: "re:^/account/[0-9]+$"
    beacons:
      - id: avatar
        selector: "//img[@alt='avatar']"
        trigger:
          delay_ms: 0
`

func mustLoad(t *testing.T, src string) *Config {
	t.Helper()
	cfg, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		current string
		pattern string
		want    bool
	}{
		{"/checkout", "/checkout", true},
		{"/checkout", "/cart", false},
		{"/checkout/pay", "/checkout/*", true},
		{"/checkout/pay/confirm", "/checkout/*", true},
		{"/checkout", "/checkout/*", false},
		{"/anything", "*", true},
		{"/a.b", "/a.b", true},
		{"/axb", "/a.*", false},
		{"/a.html", "/*.html", true},
		{"/account/42", "re:^/account/[0-9]+$", true},
		{"/account/me", "re:^/account/[0-9]+$", false},
		{"/x", "re:([", false},
	}

	for _, tt := range tests {
		if got := MatchPath(tt.current, tt.pattern); got != tt.want {
			t.Errorf("MatchPath(%q, %q) = %v, want %v", tt.current, tt.pattern, got, tt.want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"", "/"},
		{"checkout", "/checkout"},
		{"/checkout/", "/checkout"},
		{"  /checkout/pay  ", "/checkout/pay"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	cfg := mustLoad(t, definitions)

	if len(cfg.Pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(cfg.Pages))
	}
	if got := len(cfg.Beacons()); got != 4 {
		t.Errorf("Beacons() = %d, want 4", got)
	}
	pay := cfg.Pages[1].Beacons[0]
	if pay.Trigger == nil || pay.Trigger.ZIndex == nil || *pay.Trigger.ZIndex != 0 {
		t.Errorf("explicit zero z_index not preserved: %+v", pay.Trigger)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg := mustLoad(t, "")
	if len(cfg.Pages) != 0 {
		t.Errorf("pages = %d, want 0", len(cfg.Pages))
	}
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(strings.NewReader("pages: [unterminated"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}

	_, err = Load(strings.NewReader("pagez: []"))
	if !errors.As(err, &pe) {
		t.Errorf("unknown field error = %v, want *ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	src := `
trigger:
  anchor: middle
pages:
  - id: a
    path: /a
    beacons:
      - id: one
        selector: ""
      - id: one
        selector: "#x"
        trigger:
          strategy: sticky
          delay_ms: -5
        popover:
          anchor: nowhere
  - id: a
    path: "re:(["
  - path: ""
`
	_, err := Load(strings.NewReader(src))
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("Load() error = %v, want ErrInvalidDefinition", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is not a *ValidationError")
	}

	wants := []string{
		`unknown anchor "middle"`,
		"missing selector",
		`duplicate beacon id "one"`,
		`unknown strategy "sticky"`,
		"negative delay -5",
		`unknown popover anchor "nowhere"`,
		`duplicate page id "a"`,
		"invalid path pattern",
		"pages[2]: missing id",
		"missing path",
	}
	msg := err.Error()
	for _, w := range wants {
		if !strings.Contains(msg, w) {
			t.Errorf("error %q does not mention %q", msg, w)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beacons.yaml")
	if err := os.WriteFile(path, []byte(definitions), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(cfg.Pages) != 3 {
		t.Errorf("pages = %d", len(cfg.Pages))
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestResolve(t *testing.T) {
	cfg := mustLoad(t, definitions)
	d := BuiltinDefaults()

	help := cfg.Pages[0].Beacons[0]
	got := cfg.Resolve(help, d)
	want := Resolved{
		Point:         anchor.BottomRight,
		ZIndex:        100,
		Delay:         50 * time.Millisecond,
		Strategy:      anchor.Absolute,
		PopoverPoint:  anchor.TopLeft,
		PopoverOffset: anchor.Offset{Y: 8},
	}
	if got != want {
		t.Errorf("Resolve(help) = %+v, want %+v", got, want)
	}

	pay := cfg.Pages[1].Beacons[0]
	got = cfg.Resolve(pay, d)
	want = Resolved{
		Point:         anchor.TopCenter,
		ZIndex:        0,
		Offset:        anchor.Offset{X: 4, Y: -2},
		Delay:         50 * time.Millisecond,
		Strategy:      anchor.Fixed,
		PopoverPoint:  anchor.BottomCenter,
		PopoverOffset: anchor.Offset{Y: 8},
	}
	if got != want {
		t.Errorf("Resolve(pay) = %+v, want %+v", got, want)
	}

	avatar := cfg.Pages[2].Beacons[0]
	if got := cfg.Resolve(avatar, d); got.Delay != 0 {
		t.Errorf("Resolve(avatar).Delay = %v, want 0", got.Delay)
	}
}

func TestResolve_Defaults(t *testing.T) {
	var cfg *Config
	d := Defaults{Point: anchor.LeftCenter, ZIndex: 3, Delay: time.Second, Strategy: anchor.Fixed}

	got := cfg.Resolve(Beacon{ID: "x", Selector: "#x"}, d)
	if got.Point != anchor.LeftCenter || got.ZIndex != 3 || got.Delay != time.Second || got.Strategy != anchor.Fixed {
		t.Errorf("Resolve() = %+v, want defaults", got)
	}
	if got.PopoverPoint != anchor.LeftCenter {
		t.Errorf("PopoverPoint = %q, want trigger anchor", got.PopoverPoint)
	}

	got = cfg.Resolve(Beacon{}, Defaults{})
	if got.Point != anchor.DefaultPoint || got.Strategy != anchor.DefaultStrategy {
		t.Errorf("zero defaults not repaired: %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	if s.IsDismissed("a") {
		t.Fatal("fresh store reports dismissed")
	}
	s.View("a")
	s.Dismiss("a")
	s.Dismiss("b")

	if !s.IsDismissed("a") || !s.IsDismissed("b") {
		t.Error("Dismiss() not recorded")
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != "a" || all[0].ViewCount != 2 || !all[0].DismissedAt.Equal(at) {
		t.Errorf("All() = %+v", all)
	}

	s.Reset("a")
	if s.IsDismissed("a") {
		t.Error("Reset() kept dismissal")
	}
	s.ResetAll()
	if len(s.All()) != 0 {
		t.Error("ResetAll() kept state")
	}
}

func TestKey(t *testing.T) {
	if got := Key("pay"); got != "repere:pay" {
		t.Errorf("Key() = %q", got)
	}
}

func TestManager(t *testing.T) {
	cfg := mustLoad(t, definitions)
	m := NewManager(cfg, nil, nil)

	ids := func(bs []Beacon) string {
		var out []string
		for _, b := range bs {
			out = append(out, b.ID+"="+b.Selector)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		path  string
		pages int
		want  string
	}{
		{"/", 1, "help=#help"},
		{"/checkout/pay", 2, "help=#help,pay=#pay"},
		{"/account/7", 2, "help=#help,avatar=//img[@alt='avatar']"},
	}
	for _, tt := range tests {
		if got := len(m.MatchingPages(tt.path)); got != tt.pages {
			t.Errorf("MatchingPages(%q) = %d, want %d", tt.path, got, tt.pages)
		}
		if got := ids(m.ActiveBeacons(tt.path)); got != tt.want {
			t.Errorf("ActiveBeacons(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	m.Dismiss("help")
	if got := ids(m.ActiveBeacons("/checkout/pay")); got != "pay=#pay" {
		t.Errorf("ActiveBeacons after dismiss = %s", got)
	}
	// Dismissing the first occurrence does not promote the duplicate.
	for _, b := range m.ActiveBeacons("/checkout/pay") {
		if b.ID == "help" {
			t.Error("duplicate of dismissed beacon shown")
		}
	}

	m.SetConfig(nil)
	if got := m.ActiveBeacons("/checkout/pay"); got != nil {
		t.Errorf("ActiveBeacons with empty config = %v", got)
	}
}
