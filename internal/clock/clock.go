// Package clock provides the cancellable periodic timers that drive a
// workout session: the pre-start countdown and the elapsed-time stopwatch.
package clock

import (
	"sync"
	"time"
)

// Ticker abstracts time.Ticker so tests can deliver ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type wallTicker struct {
	*time.Ticker
}

func (w wallTicker) C() <-chan time.Time {
	return w.Ticker.C
}

// WallTicker indirects time.NewTicker.
func WallTicker(d time.Duration) Ticker {
	return wallTicker{Ticker: time.NewTicker(d)}
}

// Timer runs a callback once per interval on its own goroutine until it is
// cancelled or the callback asks to stop. At most one run is active at a time.
type Timer struct {
	newTicker TickerFunc

	mu   sync.Mutex
	run  *run
	last *run
}

type run struct {
	stop     chan struct{}
	done     chan struct{}
	onCancel func()
}

// New returns a Timer whose ticks come from src. A nil src uses WallTicker.
func New(src TickerFunc) *Timer {
	if src == nil {
		src = WallTicker
	}
	return &Timer{newTicker: src}
}

// Start begins ticking every interval. onTick runs on the timer goroutine;
// returning false ends the run without calling onCancel. onCancel, if non-nil,
// runs on the goroutine that calls Cancel.
//
// Start reports false and does nothing when a run is already active.
func (t *Timer) Start(interval time.Duration, onTick func() bool, onCancel func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.run != nil {
		return false
	}
	r := &run{
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
	t.run = r
	t.last = r
	go t.loop(r, t.newTicker(interval), onTick)
	return true
}

func (t *Timer) loop(r *run, tk Ticker, onTick func() bool) {
	defer close(r.done)
	defer tk.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-tk.C():
		}

		// A tick and a cancel can be ready together; cancel wins.
		select {
		case <-r.stop:
			return
		default:
		}

		if !onTick() {
			t.mu.Lock()
			if t.run == r {
				t.run = nil
			}
			t.mu.Unlock()
			return
		}
	}
}

// Cancel stops the active run. Once it returns no further tick is delivered;
// a tick that fired before the cancel may still be finishing. Callers whose
// onTick takes a lock should re-check their own state under that lock.
// Cancel is idempotent and safe on a Timer that was never started. It does
// not wait for the goroutine to exit, so it may be called while holding locks
// that onTick also takes.
func (t *Timer) Cancel() {
	t.mu.Lock()
	r := t.run
	t.run = nil
	t.mu.Unlock()

	if r == nil {
		return
	}
	close(r.stop)
	if r.onCancel != nil {
		r.onCancel()
	}
}

// Active reports whether a run is in progress.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.run != nil
}

// Wait blocks until the most recent run's goroutine has exited.
// It returns immediately if the Timer was never started.
func (t *Timer) Wait() {
	t.mu.Lock()
	r := t.last
	t.mu.Unlock()
	if r != nil {
		<-r.done
	}
}
