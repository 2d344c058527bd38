package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/beacon"
)

// Result is the first placement delivered for one beacon.
type Result struct {
	Beacon    beacon.Beacon
	Placement *anchor.Placement
}

// Resolve subscribes every active beacon on the configured route, waits
// for each one's first delivery and writes one JSON object per line to w
// in definition order. Per-beacon delays are honoured; ctx bounds the wait.
func (a *App) Resolve(ctx context.Context, w io.Writer) error {
	results, err := a.Collect(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		line, err := EncodeResult(r)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", r.Beacon.ID, err)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Collect gathers the first placement of every active beacon.
func (a *App) Collect(ctx context.Context) ([]Result, error) {
	route := a.cfg.Beacons.Route
	active := a.beacons.ActiveBeacons(route)
	results := make([]Result, len(active))
	if len(active) == 0 {
		a.log.Info("no active beacons for %s", route)
		return results, nil
	}

	loop := a.newLoop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})

	var mu sync.Mutex
	delivered := make([]bool, len(active))
	remaining := make(chan struct{}, len(active))

	tr := a.newTracker(loop)
	var subErr error
	err := loop.Do(ctx, func() {
		for i, b := range active {
			results[i].Beacon = b
			r := a.beacons.Config().Resolve(b, a.defaults())
			_, err := tr.Subscribe(b.Selector, r.Point, func(p *anchor.Placement) {
				mu.Lock()
				defer mu.Unlock()
				if delivered[i] {
					return
				}
				delivered[i] = true
				results[i].Placement = p
				remaining <- struct{}{}
			}, subscribeOptions(r)...)
			if err != nil {
				subErr = fmt.Errorf("subscribing %s: %w", b.ID, err)
				return
			}
		}
	})
	if err == nil {
		err = subErr
	}

	for n := 0; err == nil && n < len(active); n++ {
		select {
		case <-remaining:
		case <-ctx.Done():
			err = fmt.Errorf("waiting for placements: %w", ctx.Err())
		}
	}

	loop.Close()
	if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) && err == nil {
		err = werr
	}
	// The loop has stopped, so nothing else touches the tracker.
	tr.Destroy()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

type field struct {
	path  string
	value any
}

// EncodeResult renders r as a single-line JSON object.
func EncodeResult(r Result) (string, error) {
	fields := []field{
		{"id", r.Beacon.ID},
		{"selector", r.Beacon.Selector},
		{"found", r.Placement != nil},
	}
	if p := r.Placement; p != nil {
		fields = append(fields, []field{
			{"top", p.Top},
			{"left", p.Left},
			{"translate.x", p.Translate.X},
			{"translate.y", p.Translate.Y},
			{"position", string(p.Position)},
			{"zIndex", p.ZIndex},
			{"transform", p.Translate.CSS()},
		}...)
	}

	out := "{}"
	for _, f := range fields {
		var err error
		out, err = sjson.Set(out, f.path, f.value)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}
