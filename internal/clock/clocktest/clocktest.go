// Package clocktest provides hand-driven tickers for testing code built on
// package clock.
package clocktest

import (
	"sync"
	"time"

	"github.com/fakeyudi/repcount/internal/clock"
)

// Source hands out manual tickers and remembers them in creation order.
type Source struct {
	created chan *Ticker
}

// NewSource returns an empty Source.
func NewSource() *Source {
	return &Source{created: make(chan *Ticker, 64)}
}

// New satisfies clock.TickerFunc.
func (s *Source) New(d time.Duration) clock.Ticker {
	t := &Ticker{
		Interval: d,
		c:        make(chan time.Time),
		stopped:  make(chan struct{}),
	}
	s.created <- t
	return t
}

// Next returns the next ticker created by the code under test, waiting up to
// timeout. It returns nil if none was created in time.
func (s *Source) Next(timeout time.Duration) *Ticker {
	select {
	case t := <-s.created:
		return t
	case <-time.After(timeout):
		return nil
	}
}

// Pending reports how many created tickers have not been taken with Next.
func (s *Source) Pending() int {
	return len(s.created)
}

// Ticker is a clock.Ticker that only fires when Tick is called.
type Ticker struct {
	Interval time.Duration

	c       chan time.Time
	once    sync.Once
	stopped chan struct{}
}

// C implements clock.Ticker.
func (t *Ticker) C() <-chan time.Time {
	return t.c
}

// Stop implements clock.Ticker.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.stopped) })
}

// Stopped reports whether the consumer has stopped the ticker.
func (t *Ticker) Stopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

// Tick delivers one tick, blocking until the consumer receives it.
// It returns false if the ticker is stopped first.
func (t *Ticker) Tick() bool {
	select {
	case t.c <- time.Now():
		return true
	case <-t.stopped:
		return false
	}
}

// WaitStopped blocks until the ticker is stopped or timeout elapses.
func (t *Ticker) WaitStopped(timeout time.Duration) bool {
	select {
	case <-t.stopped:
		return true
	case <-time.After(timeout):
		return false
	}
}
