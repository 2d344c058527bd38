// Package app wires configuration, the host document, beacon definitions
// and the tracking engine into the resolve and watch commands.
package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/beacon"
	"github.com/dshills/repere/internal/config"
	"github.com/dshills/repere/internal/dom"
	"github.com/dshills/repere/internal/logging"
	"github.com/dshills/repere/internal/schedule"
	"github.com/dshills/repere/internal/tracker"
)

// Options are command-line overrides. Empty fields leave the config value
// in place.
type Options struct {
	// ConfigPath is the TOML config file.
	ConfigPath string

	// DocumentPath is the HTML document to track.
	DocumentPath string

	// BeaconsPath is the YAML beacon definition file.
	BeaconsPath string

	// Route is the page path used to select beacons.
	Route string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Debug forces debug logging.
	Debug bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// App holds the loaded state shared by both commands.
type App struct {
	cfg     *config.Config
	log     *logging.Logger
	doc     *dom.Document
	beacons *beacon.Manager

	docPath     string
	beaconsPath string
}

// New loads configuration, the document and beacon definitions.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &ComponentError{Component: "config", Action: "load", Err: err}
	}
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: out,
		Prefix: "repere",
	})

	a := &App{cfg: cfg, log: log}

	if cfg.Document.Path == "" {
		return nil, ErrNoDocument
	}
	a.docPath = absPath(cfg.Document.Path)
	a.doc, err = dom.ParseFile(a.docPath,
		dom.WithViewport(cfg.Document.ViewportWidth, cfg.Document.ViewportHeight),
		dom.WithLogger(log.WithComponent("dom")),
	)
	if err != nil {
		return nil, &ComponentError{Component: "document", Action: "parse", Err: err}
	}

	bcfg := &beacon.Config{}
	if cfg.Beacons.Path != "" {
		a.beaconsPath = absPath(cfg.Beacons.Path)
		bcfg, err = beacon.LoadFile(a.beaconsPath)
		if err != nil {
			return nil, &ComponentError{Component: "beacons", Action: "load", Err: err}
		}
	}
	a.beacons = beacon.NewManager(bcfg, nil, log.WithComponent("beacon"))

	log.Debug("loaded %s with %d beacon definitions", a.docPath, len(bcfg.Beacons()))
	return a, nil
}

func applyOptions(cfg *config.Config, opts Options) error {
	if opts.DocumentPath != "" {
		cfg.Document.Path = opts.DocumentPath
	}
	if opts.BeaconsPath != "" {
		cfg.Beacons.Path = opts.BeaconsPath
	}
	if opts.Route != "" {
		cfg.Beacons.Route = opts.Route
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return &ComponentError{Component: "options", Err: ErrInvalidLogLevel}
		}
		cfg.Logging.Level = strings.ToLower(opts.LogLevel)
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Document returns the host document.
func (a *App) Document() *dom.Document {
	return a.doc
}

// Beacons returns the beacon manager.
func (a *App) Beacons() *beacon.Manager {
	return a.beacons
}

// Logger returns the application logger.
func (a *App) Logger() *logging.Logger {
	return a.log
}

// newLoop creates the scheduler both commands run the tracker on.
func (a *App) newLoop() *schedule.Loop {
	log := a.log.WithComponent("loop")
	return schedule.NewLoop(
		schedule.WithFrameInterval(a.cfg.FrameInterval()),
		schedule.WithPanicHandler(func(r any) {
			log.Error("callback panicked: %v", r)
		}),
	)
}

func (a *App) newTracker(sched schedule.Scheduler) *tracker.Tracker {
	return tracker.New(a.doc, sched,
		tracker.WithSettings(a.cfg.TrackerSettings()),
		tracker.WithLogger(a.log.WithComponent("tracker")),
	)
}

// defaults are the beacon settings used when a definition leaves one out.
func (a *App) defaults() beacon.Defaults {
	s := a.cfg.TrackerSettings()
	return beacon.Defaults{
		Point:    anchor.DefaultPoint,
		ZIndex:   s.ZIndex,
		Delay:    s.Delay,
		Strategy: s.Strategy,
	}
}

// subscribeOptions converts resolved beacon settings to tracker options.
func subscribeOptions(r beacon.Resolved) []tracker.SubscribeOption {
	return []tracker.SubscribeOption{
		tracker.WithOffset(r.Offset.X, r.Offset.Y),
		tracker.WithZIndex(r.ZIndex),
		tracker.WithDelay(r.Delay),
		tracker.WithStrategy(r.Strategy),
	}
}
