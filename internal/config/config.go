// Package config loads repere settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, REPERE_*
// environment variables, then command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/logging"
	"github.com/dshills/repere/internal/schedule"
	"github.com/dshills/repere/internal/tracker"
)

// Config is the full application configuration.
type Config struct {
	Tracker  TrackerConfig  `toml:"tracker"`
	Logging  LoggingConfig  `toml:"logging"`
	Document DocumentConfig `toml:"document"`
	Beacons  BeaconsConfig  `toml:"beacons"`
	Viewer   ViewerConfig   `toml:"viewer"`
}

// TrackerConfig holds subscription defaults and frame pacing.
type TrackerConfig struct {
	ZIndex          int    `toml:"z_index"`
	DelayMS         int    `toml:"delay_ms"`
	Strategy        string `toml:"strategy"`
	FrameIntervalMS int    `toml:"frame_interval_ms"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DocumentConfig locates the host document.
type DocumentConfig struct {
	Path           string  `toml:"path"`
	Watch          bool    `toml:"watch"`
	DebounceMS     int     `toml:"debounce_ms"`
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
}

// BeaconsConfig locates beacon definitions and the current route.
type BeaconsConfig struct {
	Path  string `toml:"path"`
	Route string `toml:"route"`
}

// ViewerConfig controls the terminal viewer.
type ViewerConfig struct {
	// Scale is document pixels per terminal column. Rows cover twice as
	// many pixels.
	Scale float64 `toml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			ZIndex:          anchor.DefaultZIndex,
			Strategy:        string(anchor.DefaultStrategy),
			FrameIntervalMS: int(schedule.DefaultFrameInterval / time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Document: DocumentConfig{
			DebounceMS:     100,
			ViewportWidth:  1280,
			ViewportHeight: 800,
		},
		Beacons: BeaconsConfig{
			Route: "/",
		},
		Viewer: ViewerConfig{
			Scale: 10,
		},
	}
}

// Load reads path over the defaults, then applies the environment. A
// missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadReader reads TOML from r over the defaults without consulting the
// environment.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := cfg.decode("<reader>", data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			pe.Message = serr.String()
		}
		return pe
	}
	return nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if c.Tracker.ZIndex < 0 {
		return &ValidationError{Path: "tracker.z_index", Message: "must not be negative", Value: c.Tracker.ZIndex}
	}
	if c.Tracker.DelayMS < 0 {
		return &ValidationError{Path: "tracker.delay_ms", Message: "must not be negative", Value: c.Tracker.DelayMS}
	}
	if !anchor.Strategy(c.Tracker.Strategy).Valid() {
		return &ValidationError{Path: "tracker.strategy", Message: "must be absolute or fixed", Value: c.Tracker.Strategy}
	}
	if c.Tracker.FrameIntervalMS <= 0 {
		return &ValidationError{Path: "tracker.frame_interval_ms", Message: "must be positive", Value: c.Tracker.FrameIntervalMS}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level}
	}
	if c.Document.DebounceMS < 0 {
		return &ValidationError{Path: "document.debounce_ms", Message: "must not be negative", Value: c.Document.DebounceMS}
	}
	if c.Document.ViewportWidth <= 0 || c.Document.ViewportHeight <= 0 {
		return &ValidationError{
			Path:    "document.viewport",
			Message: "must be positive",
			Value:   fmt.Sprintf("%vx%v", c.Document.ViewportWidth, c.Document.ViewportHeight),
		}
	}
	if c.Viewer.Scale <= 0 {
		return &ValidationError{Path: "viewer.scale", Message: "must be positive", Value: c.Viewer.Scale}
	}
	return nil
}

// TrackerSettings converts the tracker section into subscription
// defaults.
func (c *Config) TrackerSettings() tracker.Settings {
	return tracker.Settings{
		ZIndex:   c.Tracker.ZIndex,
		Strategy: anchor.Strategy(c.Tracker.Strategy),
		Delay:    time.Duration(c.Tracker.DelayMS) * time.Millisecond,
	}
}

// FrameInterval returns the tracker frame interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Tracker.FrameIntervalMS) * time.Millisecond
}

// Debounce returns the document reload debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Document.DebounceMS) * time.Millisecond
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
