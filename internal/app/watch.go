package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/beacon"
	"github.com/dshills/repere/internal/logging"
	"github.com/dshills/repere/internal/schedule"
	"github.com/dshills/repere/internal/tracker"
	"github.com/dshills/repere/internal/view"
	"github.com/dshills/repere/internal/watcher"
)

// session is the state of one Watch call. Everything except the channels
// is owned by the loop goroutine.
type session struct {
	app     *App
	log     *logging.Logger
	screen  tcell.Screen
	view    *view.View
	loop    *schedule.Loop
	tracker *tracker.Tracker
	quit    context.CancelFunc

	active  []beacon.Beacon
	markers []view.Marker
	subs    []*tracker.Subscription
	focus   int
	status  string

	drawPending bool
}

// Watch shows the document and its beacons on screen until the user quits
// or ctx is cancelled. screen must already be initialised. When document
// watching is enabled, edits to the document or beacon file are applied
// live.
func (a *App) Watch(ctx context.Context, screen tcell.Screen) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := a.newLoop()
	s := &session{
		app:     a,
		log:     a.log.WithComponent("watch"),
		screen:  screen,
		view:    view.New(screen, view.WithScale(a.cfg.Viewer.Scale)),
		loop:    loop,
		tracker: a.newTracker(loop),
		quit:    cancel,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		loop.Close()
		// Wake PollEvent so the input goroutine can exit.
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		return s.pollEvents(gctx)
	})

	if a.cfg.Document.Watch {
		w, err := a.newWatcher()
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		defer func() { _ = w.Close() }()
		g.Go(func() error {
			return s.watchFiles(gctx, w)
		})
	}

	if err := loop.Post(s.start); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	err := g.Wait()
	s.tracker.Destroy()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) newWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(
		watcher.WithDelay(a.cfg.Debounce()),
		watcher.WithLogger(a.log.WithComponent("watcher")),
	)
	if err != nil {
		return nil, &ComponentError{Component: "watcher", Action: "start", Err: err}
	}
	for _, p := range []string{a.docPath, a.beaconsPath} {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			_ = w.Close()
			return nil, &ComponentError{Component: "watcher", Action: "add " + p, Err: err}
		}
	}
	return w, nil
}

// pollEvents forwards terminal events to the loop.
func (s *session) pollEvents(ctx context.Context) error {
	for {
		ev := s.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if err := s.loop.Post(func() { s.handleEvent(ev) }); err != nil {
			return nil
		}
	}
}

// watchFiles applies file changes on the loop.
func (s *session) watchFiles(ctx context.Context, w *watcher.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := s.loop.Post(func() { s.reload(ev.Path) }); err != nil {
				return nil
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.log.Warn("watcher: %v", err)
		}
	}
}

func (s *session) start() {
	s.syncViewport()
	s.subscribeAll()
	s.status = fmt.Sprintf("%d beacons on %s", len(s.active), s.app.cfg.Beacons.Route)
	s.requestDraw()
}

// subscribeAll drops every subscription and subscribes the beacons active
// on the route.
func (s *session) subscribeAll() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil

	mgr := s.app.beacons
	s.active = mgr.ActiveBeacons(s.app.cfg.Beacons.Route)
	s.markers = make([]view.Marker, len(s.active))
	if s.focus >= len(s.active) {
		s.focus = len(s.active) - 1
	}
	if s.focus < 0 && len(s.active) > 0 {
		s.focus = 0
	}

	for i, b := range s.active {
		label := b.Label
		if label == "" {
			label = b.ID
		}
		s.markers[i] = view.Marker{ID: b.ID, Label: label}

		r := mgr.Config().Resolve(b, s.app.defaults())
		sub, err := s.tracker.Subscribe(b.Selector, r.Point, func(p *anchor.Placement) {
			s.markers[i].Placement = p
			s.requestDraw()
		}, subscribeOptions(r)...)
		if err != nil {
			s.log.Warn("subscribing %s: %v", b.ID, err)
			continue
		}
		s.subs = append(s.subs, sub)
	}
}

// resubscribeAbsolute recomputes the one-shot placements after the
// document changed underneath them.
func (s *session) resubscribeAbsolute() {
	for _, sub := range s.subs {
		if sub.Strategy() == anchor.Absolute {
			s.subscribeAll()
			return
		}
	}
}

func (s *session) reload(path string) {
	switch path {
	case s.app.docPath:
		f, err := os.Open(path)
		if err != nil {
			s.fail("reading document", err)
			return
		}
		err = s.app.doc.Replace(f)
		_ = f.Close()
		if err != nil {
			s.fail("parsing document", err)
			return
		}
		s.resubscribeAbsolute()
		s.status = "reloaded " + filepath.Base(path)

	case s.app.beaconsPath:
		cfg, err := beacon.LoadFile(path)
		if err != nil {
			s.fail("loading beacons", err)
			return
		}
		s.app.beacons.SetConfig(cfg)
		s.subscribeAll()
		s.status = fmt.Sprintf("reloaded %s: %d beacons", filepath.Base(path), len(s.active))

	default:
		return
	}
	s.log.Info("%s", s.status)
	s.requestDraw()
}

func (s *session) fail(action string, err error) {
	s.status = action + ": " + err.Error()
	s.log.Error("%s: %v", action, err)
	s.requestDraw()
}

// syncViewport sizes the document viewport to the screen.
func (s *session) syncViewport() {
	w, h := s.view.ViewportSize()
	s.app.doc.Resize(w, h)
}

// requestDraw schedules one redraw for the next frame.
func (s *session) requestDraw() {
	if s.drawPending {
		return
	}
	s.drawPending = true
	s.loop.RequestFrame(func() {
		s.drawPending = false
		s.draw()
	})
}

func (s *session) draw() {
	s.view.Draw(s.frame())
}

// frame snapshots the current state for the view.
func (s *session) frame() view.Frame {
	doc := s.app.doc
	f := view.Frame{
		Title:   doc.Title(),
		Route:   s.app.cfg.Beacons.Route,
		Scroll:  doc.ScrollOffset(),
		Markers: make([]view.Marker, len(s.markers)),
		Focus:   s.focus,
		Status:  s.status,
	}
	copy(f.Markers, s.markers)
	for _, b := range s.active {
		if el := doc.Find(b.Selector); el != nil {
			f.Boxes = append(f.Boxes, view.Box{Label: el.Label(), Rect: el.BoundingRect()})
		}
	}
	return f
}
