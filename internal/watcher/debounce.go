package watcher

import "time"

// pending is a change waiting out the debounce delay.
type pending struct {
	event Event
	timer *time.Timer
	seq   uint64
}

// schedule merges ev into the pending change for its path and restarts the
// delay. Callers hold w.mu.
func (w *Watcher) schedule(ev Event) {
	if p, ok := w.pending[ev.Path]; ok {
		p.event.Op |= ev.Op
		p.event.Time = ev.Time
		p.seq++
		seq := p.seq
		p.timer.Stop()
		p.timer = time.AfterFunc(w.delay, func() { w.fire(ev.Path, seq) })
		return
	}

	p := &pending{event: ev}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(ev.Path, 0) })
	w.pending[ev.Path] = p
}

// fire delivers a pending change unless a newer one superseded it.
func (w *Watcher) fire(path string, seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || p.seq != seq || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
		w.log.Debug("%s changed (%s)", path, p.event.Op)
	default:
		w.log.Warn("event channel full, dropping change to %s", path)
	}
}

// Flush delivers every pending change immediately.
func (w *Watcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	seqs := make([]uint64, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
		seqs = append(seqs, p.seq)
	}
	w.mu.Unlock()

	for i, path := range paths {
		w.fire(path, seqs[i])
	}
}

// PendingCount returns the number of changes waiting out the delay.
func (w *Watcher) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
