package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopClosed is returned when work is submitted to a closed loop.
var ErrLoopClosed = errors.New("loop is closed")

const (
	taskPending int32 = iota
	taskStopped
	taskDone
)

// task is a single scheduled callback. Its state transitions exactly once
// from pending to either stopped or done.
type task struct {
	fn    func()
	state atomic.Int32
	timer *time.Timer
}

func (t *task) Stop() bool {
	if !t.state.CompareAndSwap(taskPending, taskStopped) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

func (t *task) claim() bool {
	return t.state.CompareAndSwap(taskPending, taskDone)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the frame tick interval.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithPanicHandler sets a handler for panics raised by callbacks.
// Without one, panics are swallowed so the loop keeps running.
func WithPanicHandler(h func(recovered any)) LoopOption {
	return func(l *Loop) {
		l.panicHandler = h
	}
}

// Loop is a real-time Scheduler that executes every callback on the
// goroutine calling Run.
type Loop struct {
	frameInterval time.Duration
	queueSize     int
	panicHandler  func(recovered any)

	tasks chan func()

	mu         sync.Mutex
	frames     []*task
	frameArmed bool

	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

// NewLoop creates a loop. Call Run to start executing callbacks.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		frameInterval: DefaultFrameInterval,
		queueSize:     1024,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tasks = make(chan func(), l.queueSize)
	return l
}

// FrameInterval returns the configured frame interval.
func (l *Loop) FrameInterval() time.Duration {
	return l.frameInterval
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// It must not be called from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	t := &task{fn: fn}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.claim() {
				t.fn()
			}
		})
	})
	return t
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func()) Handle {
	t := &task{fn: fn}

	l.mu.Lock()
	l.frames = append(l.frames, t)
	arm := !l.frameArmed
	l.frameArmed = true
	l.mu.Unlock()

	if arm {
		time.AfterFunc(l.frameInterval, func() {
			_ = l.Post(l.runFrame)
		})
	}
	return t
}

// runFrame executes the frame batch collected so far.
func (l *Loop) runFrame() {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.frameArmed = false
	l.mu.Unlock()

	for _, t := range batch {
		if t.claim() {
			l.exec(t.fn)
		}
	}
}

// Run executes callbacks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop is already running")
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// exec runs fn, recovering panics so that one misbehaving callback cannot
// stop the loop.
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.panicHandler != nil {
			l.panicHandler(r)
		}
	}()
	fn()
}

// Close stops the loop. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
