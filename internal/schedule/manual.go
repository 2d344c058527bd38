package schedule

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock.
// It is not safe for concurrent use.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTask
	frames []*manualTask
}

type manualTask struct {
	seq     uint64
	due     time.Time
	fn      func()
	stopped bool
	done    bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{seq: m.seq, due: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func()) Handle {
	m.seq++
	t := &manualTask{seq: m.seq, fn: fn}
	m.frames = append(m.frames, t)
	return t
}

// Advance moves the clock forward by d, running every timer that becomes
// due in due-time order. Timers scheduled by those callbacks run too if
// they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		if next.due.After(m.now) {
			m.now = next.due
		}
		next.done = true
		next.fn()
	}
	m.now = target
	m.compact()
}

func (m *Manual) nextDue(limit time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.timers {
		if t.stopped || t.done || t.due.After(limit) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// RunFrame runs every frame callback requested before the call and returns
// how many ran. Callbacks requested during the frame wait for the next one.
func (m *Manual) RunFrame() int {
	batch := m.frames
	m.frames = nil

	ran := 0
	for _, t := range batch {
		if t.stopped {
			continue
		}
		t.done = true
		t.fn()
		ran++
	}
	return ran
}

// PendingTimers returns the number of timers that have neither run nor
// been stopped.
func (m *Manual) PendingTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.done {
			n++
		}
	}
	return n
}

// PendingFrames returns the number of live frame callbacks.
func (m *Manual) PendingFrames() int {
	n := 0
	for _, t := range m.frames {
		if !t.stopped {
			n++
		}
	}
	return n
}

// NextDue returns the due time of the earliest live timer.
func (m *Manual) NextDue() (time.Time, bool) {
	live := make([]*manualTask, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && !t.done {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return time.Time{}, false
	}
	sort.Slice(live, func(i, j int) bool { return live[i].due.Before(live[j].due) })
	return live[0].due, true
}

func (m *Manual) compact() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.done {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}
