package clock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fakeyudi/repcount/internal/clock"
	"github.com/fakeyudi/repcount/internal/clock/clocktest"
)

const wait = 2 * time.Second

func TestTimerTicksUntilCallbackStops(t *testing.T) {
	src := clocktest.NewSource()
	timer := clock.New(src.New)

	ticks := make(chan int, 10)
	n := 0
	if !timer.Start(time.Second, func() bool {
		n++
		ticks <- n
		return n < 3
	}, func() { t.Error("onCancel must not run when the callback ends the run") }) {
		t.Fatal("Start returned false on an idle timer")
	}

	tk := src.Next(wait)
	if tk == nil {
		t.Fatal("no ticker created")
	}
	if tk.Interval != time.Second {
		t.Errorf("interval: got %v, want 1s", tk.Interval)
	}
	for i := 1; i <= 3; i++ {
		if !tk.Tick() {
			t.Fatalf("tick %d not delivered", i)
		}
		if got := <-ticks; got != i {
			t.Fatalf("tick %d: callback saw %d", i, got)
		}
	}
	if !tk.WaitStopped(wait) {
		t.Fatal("ticker not stopped after terminal tick")
	}
	timer.Wait()
	if timer.Active() {
		t.Error("timer still active after terminal tick")
	}
}

func TestStartWhileActiveIsNoop(t *testing.T) {
	src := clocktest.NewSource()
	timer := clock.New(src.New)
	defer timer.Cancel()

	if !timer.Start(time.Second, func() bool { return true }, nil) {
		t.Fatal("first Start failed")
	}
	if timer.Start(time.Second, func() bool { return true }, nil) {
		t.Fatal("second Start should be a no-op")
	}
	src.Next(wait)
	if src.Pending() != 0 {
		t.Errorf("duplicate Start created %d extra tickers", src.Pending())
	}
}

func TestCancelStopsTicks(t *testing.T) {
	src := clocktest.NewSource()
	timer := clock.New(src.New)

	var fired atomic.Int32
	var cancelled atomic.Int32
	handled := make(chan struct{}, 1)
	timer.Start(time.Second, func() bool {
		fired.Add(1)
		handled <- struct{}{}
		return true
	}, func() { cancelled.Add(1) })

	tk := src.Next(wait)
	tk.Tick()
	<-handled
	timer.Cancel()
	timer.Wait()

	if tk.Tick() {
		t.Error("tick delivered after Cancel")
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("fired: got %d, want 1", got)
	}
	if got := cancelled.Load(); got != 1 {
		t.Errorf("onCancel calls: got %d, want 1", got)
	}
	if timer.Active() {
		t.Error("timer active after Cancel")
	}
}

// Cancel does not wait for a tick that is already running; Wait does.
func TestCancelDoesNotWaitForInFlightTick(t *testing.T) {
	src := clocktest.NewSource()
	timer := clock.New(src.New)

	entered := make(chan struct{})
	release := make(chan struct{})
	var fired, cancelled atomic.Int32
	timer.Start(time.Second, func() bool {
		entered <- struct{}{}
		<-release
		fired.Add(1)
		return true
	}, func() { cancelled.Add(1) })

	tk := src.Next(wait)
	go tk.Tick()
	<-entered

	cancelReturned := make(chan struct{})
	go func() {
		timer.Cancel()
		close(cancelReturned)
	}()
	select {
	case <-cancelReturned:
	case <-time.After(wait):
		close(release)
		t.Fatal("Cancel blocked on the in-flight tick")
	}
	if fired.Load() != 0 {
		t.Fatal("tick finished before it was released")
	}
	if got := cancelled.Load(); got != 1 {
		t.Errorf("onCancel calls before Cancel returned: got %d, want 1", got)
	}
	if timer.Active() {
		t.Error("timer active after Cancel")
	}

	waited := make(chan struct{})
	go func() {
		timer.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		t.Fatal("Wait returned while the tick was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(wait):
		t.Fatal("Wait did not return after the tick finished")
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("fired: got %d, want 1", got)
	}
	if tk.Tick() {
		t.Error("tick delivered after Cancel")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	timer := clock.New(clocktest.NewSource().New)
	// Never started.
	timer.Cancel()
	timer.Wait()

	var cancelled atomic.Int32
	timer.Start(time.Second, func() bool { return true }, func() { cancelled.Add(1) })
	timer.Cancel()
	timer.Cancel()
	timer.Wait()
	if got := cancelled.Load(); got != 1 {
		t.Errorf("onCancel calls: got %d, want 1", got)
	}
}

func TestRestartAfterCancel(t *testing.T) {
	src := clocktest.NewSource()
	timer := clock.New(src.New)

	timer.Start(time.Second, func() bool { return true }, nil)
	src.Next(wait)
	timer.Cancel()

	if !timer.Start(time.Second, func() bool { return true }, nil) {
		t.Fatal("Start after Cancel should begin a new run")
	}
	if src.Next(wait) == nil {
		t.Fatal("restart did not create a ticker")
	}
	timer.Cancel()
	timer.Wait()
}

func TestWallTicker(t *testing.T) {
	timer := clock.New(nil)
	done := make(chan struct{})
	timer.Start(time.Millisecond, func() bool {
		close(done)
		return false
	}, nil)

	select {
	case <-done:
	case <-time.After(wait):
		t.Fatal("wall ticker never fired")
	}
	timer.Wait()
}
