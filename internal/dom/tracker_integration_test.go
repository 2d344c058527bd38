package dom_test

import (
	"testing"
	"time"

	"github.com/dshills/repere/internal/anchor"
	"github.com/dshills/repere/internal/dom"
	"github.com/dshills/repere/internal/schedule"
	"github.com/dshills/repere/internal/tracker"
)

const page = `<body>
  <div id="panel" data-rect="0 0 400 600">
    <button id="save" data-rect="40 500 100 30">Save</button>
  </div>
  <button id="help" data-rect="900 20 60 30">Help</button>
</body>`

func TestTrackerFollowsDocument(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewManual(time.Unix(0, 0))
	tr := tracker.New(doc, sched)

	var got []*anchor.Placement
	sub, err := tr.Subscribe("#save", anchor.TopRight, func(p *anchor.Placement) {
		got = append(got, p)
	}, tracker.WithStrategy(anchor.Fixed))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 || got[0].Top != 500 || got[0].Left != 140 {
		t.Fatalf("initial placement = %+v", got)
	}
	if doc.ListenerCount() != 4 || doc.Observed() != 1 {
		t.Errorf("listeners = %d observed = %d, want 4/1", doc.ListenerCount(), doc.Observed())
	}

	doc.ScrollTo(0, 100)
	if err := doc.ScrollElement("#panel", 0, 50); err != nil {
		t.Fatal(err)
	}
	sched.RunFrame()
	if p := got[len(got)-1]; p.Top != 350 || p.Left != 140 {
		t.Errorf("placement after scroll = %v/%v, want 350/140", p.Top, p.Left)
	}
	if tr.Stats().Passes != 1 {
		t.Errorf("Passes = %d, want 1", tr.Stats().Passes)
	}

	if err := doc.SetRect("#save", anchor.NewRect(40, 500, 160, 30)); err != nil {
		t.Fatal(err)
	}
	sched.RunFrame()
	if p := got[len(got)-1]; p.Left != 200 {
		t.Errorf("Left after element resize = %v, want 200", p.Left)
	}

	if err := doc.Remove("#save"); err != nil {
		t.Fatal(err)
	}
	sched.RunFrame()
	if got[len(got)-1] != nil {
		t.Error("expected nil placement after removal")
	}
	if doc.Observed() != 0 {
		t.Errorf("removed element still observed")
	}

	if err := doc.Append("#panel", `<button id="save" data-rect="40 520 100 30">Save</button>`); err != nil {
		t.Fatal(err)
	}
	sched.RunFrame()
	if p := got[len(got)-1]; p == nil || p.Top != 370 {
		t.Errorf("placement after re-adding = %+v", p)
	}

	sub.Unsubscribe()
	if doc.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d after unsubscribe, want 0", doc.ListenerCount())
	}
}

func TestAbsoluteIncludesWindowScroll(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	doc.ScrollTo(0, 10)
	tr := tracker.New(doc, schedule.NewManual(time.Unix(0, 0)))

	var got *anchor.Placement
	if _, err := tr.Subscribe("#help", anchor.BottomCenter, func(p *anchor.Placement) { got = p }); err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Top != 50 || got.Left != 930 {
		t.Errorf("placement = %+v, want 50/930", got)
	}
	if doc.ListenerCount() != 0 {
		t.Errorf("absolute subscription attached listeners")
	}
}

func TestSharedNodeStaysObserved(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewManual(time.Unix(0, 0))
	tr := tracker.New(doc, sched)

	byID, err := tr.Subscribe("#save", anchor.TopLeft, func(*anchor.Placement) {}, tracker.WithStrategy(anchor.Fixed))
	if err != nil {
		t.Fatal(err)
	}
	var got []*anchor.Placement
	if _, err := tr.Subscribe("button", anchor.TopRight, func(p *anchor.Placement) {
		got = append(got, p)
	}, tracker.WithStrategy(anchor.Fixed)); err != nil {
		t.Fatal(err)
	}
	if doc.Observed() != 1 {
		t.Errorf("Observed() = %d, want 1", doc.Observed())
	}

	byID.Unsubscribe()
	if doc.Observed() != 1 {
		t.Fatalf("Observed() after unsubscribing #save = %d, want 1", doc.Observed())
	}

	if err := doc.SetRect("#save", anchor.NewRect(40, 500, 160, 30)); err != nil {
		t.Fatal(err)
	}
	sched.RunFrame()
	if len(got) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(got))
	}
	if p := got[1]; p == nil || p.Left != 200 {
		t.Errorf("placement after resize = %+v, want Left 200", p)
	}
}
