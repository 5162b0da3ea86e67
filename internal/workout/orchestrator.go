// Package workout runs the lifecycle of a single workout attempt: it waits
// for the athlete to grip the bar, counts down, times the set, feeds every
// frame to the rep classifier and declares the session finished when the
// goal is reached.
package workout

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakeyudi/repcount/internal/clock"
	"github.com/fakeyudi/repcount/internal/pose"
	"github.com/fakeyudi/repcount/internal/rep"
)

// Phase is the session lifecycle state.
type Phase int

const (
	// AwaitingAlignment waits for both wrists to grip the bar.
	AwaitingAlignment Phase = iota
	// Countdown ticks down to the start; losing the grip does not abort it.
	Countdown
	// Running counts reps while the stopwatch advances.
	Running
	// Finished is terminal: the goal was reached and the timers are stopped.
	Finished
)

func (p Phase) String() string {
	switch p {
	case AwaitingAlignment:
		return "awaiting alignment"
	case Countdown:
		return "countdown"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

var (
	// ErrInvalidGoal is returned when the rep goal is not positive.
	ErrInvalidGoal = errors.New("goal must be at least one rep")
	// ErrInvalidCountdown is returned for a negative countdown length.
	ErrInvalidCountdown = errors.New("countdown must be at least one tick")
)

// DefaultCountdown is the number of countdown ticks before the set starts.
const DefaultCountdown = 3

// Options configures an Orchestrator. Zero values pick the defaults.
type Options struct {
	Goal          int
	Detection     rep.Config
	Gate          GateConfig
	CountdownFrom int
	// Interval is the period of both the countdown and the stopwatch.
	Interval time.Duration
	Ticker   clock.TickerFunc
	Now      func() time.Time
	Logger   *slog.Logger
	// OnFinish is called once, outside the session lock, when the goal is
	// reached.
	OnFinish func(Record)
}

// Snapshot is a read-only copy of the session state for renderers.
type Snapshot struct {
	Phase          Phase
	Goal           int
	RepCount       int
	ElapsedSeconds int
	CountdownValue int
	BarY           float64
	Joints         pose.Sample
	GateHolds      bool
	Stopped        bool
}

// Orchestrator owns one session. OnSample must not be called concurrently
// with itself; OnBarUpdate, Stop, Snapshot and Record are safe from any
// goroutine.
type Orchestrator struct {
	id        uuid.UUID
	goal      int
	detection rep.Config
	gateCfg   GateConfig
	from      int
	interval  time.Duration
	now       func() time.Time
	log       *slog.Logger
	onFinish  func(Record)

	countdown *clock.Timer
	stopwatch *clock.Timer
	done      chan struct{}

	mu             sync.Mutex
	phase          Phase
	repCount       int
	elapsed        int
	countdownValue int
	barY           float64
	joints         pose.Sample
	gate           bool
	counter        rep.Counter
	stopped        bool
	created        time.Time
	started        time.Time
}

// New validates opts and returns a session awaiting alignment.
func New(opts Options) (*Orchestrator, error) {
	if opts.Goal <= 0 {
		return nil, ErrInvalidGoal
	}
	if opts.Detection == (rep.Config{}) {
		opts.Detection = rep.DefaultConfig()
	}
	if err := opts.Detection.Validate(); err != nil {
		return nil, err
	}
	if opts.Gate == (GateConfig{}) {
		opts.Gate = DefaultGate()
	}
	if err := opts.Gate.Validate(); err != nil {
		return nil, err
	}
	switch {
	case opts.CountdownFrom == 0:
		opts.CountdownFrom = DefaultCountdown
	case opts.CountdownFrom < 0:
		return nil, ErrInvalidCountdown
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	o := &Orchestrator{
		id:             uuid.New(),
		goal:           opts.Goal,
		detection:      opts.Detection,
		gateCfg:        opts.Gate,
		from:           opts.CountdownFrom,
		interval:       opts.Interval,
		now:            opts.Now,
		onFinish:       opts.OnFinish,
		countdown:      clock.New(opts.Ticker),
		stopwatch:      clock.New(opts.Ticker),
		done:           make(chan struct{}),
		countdownValue: opts.CountdownFrom,
		created:        opts.Now(),
	}
	o.log = opts.Logger.With("session", o.id.String())
	return o, nil
}

// ID returns the session identifier carried into the Record.
func (o *Orchestrator) ID() uuid.UUID {
	return o.id
}

// Done is closed when the goal is reached.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// OnBarUpdate stores the latest bar reference. The newest value wins.
func (o *Orchestrator) OnBarUpdate(y float64) {
	o.mu.Lock()
	o.barY = y
	o.mu.Unlock()
}

// OnSample consumes one frame of joints. Missing joints skip the check that
// needs them for this frame; they are never an error.
func (o *Orchestrator) OnSample(s pose.Sample) {
	var (
		finished bool
		rec      Record
	)

	o.mu.Lock()
	o.joints = s
	o.gate = WristsNearBar(s, o.barY, o.gateCfg)

	if o.stopped || o.phase == Finished {
		o.mu.Unlock()
		return
	}

	// Once started the countdown runs to the end even if the grip is lost
	// for a frame.
	if o.gate && o.phase == AwaitingAlignment {
		o.phase = Countdown
		o.countdownValue = o.from
		o.countdown.Start(o.interval, o.countdownTick, nil)
		o.log.Info("wrists aligned, countdown started", "from", o.from)
	}

	if o.phase != Running {
		o.mu.Unlock()
		return
	}

	if avg, ok := pose.ShoulderNeckAverage(s); ok && o.counter.Update(avg, o.barY, o.detection) {
		o.repCount++
		o.log.Debug("rep counted", "reps", o.repCount, "goal", o.goal)
		if o.repCount == o.goal {
			o.phase = Finished
			o.stopwatch.Cancel()
			close(o.done)
			rec = o.recordLocked()
			finished = true
			o.log.Info("goal reached", "reps", o.repCount, "elapsed_sec", o.elapsed)
		}
	}
	o.mu.Unlock()

	if finished && o.onFinish != nil {
		o.onFinish(rec)
	}
}

func (o *Orchestrator) countdownTick() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped || o.phase != Countdown {
		return false
	}
	if o.countdownValue > 1 {
		o.countdownValue--
		return true
	}

	o.countdownValue = 0
	o.phase = Running
	o.started = o.now()
	o.stopwatch.Start(o.interval, o.stopwatchTick, nil)
	o.log.Info("session running")
	return false
}

func (o *Orchestrator) stopwatchTick() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped || o.phase != Running {
		return false
	}
	o.elapsed++
	return true
}

// Stop cancels any active timer. It leaves the counters untouched, may be
// called in any phase and any number of times, and ends sample processing
// for this session.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.stopped {
		o.log.Info("session stopped", "phase", o.phase.String(), "reps", o.repCount,
			"timer_active", o.countdown.Active() || o.stopwatch.Active())
	}
	o.stopped = true
	o.countdown.Cancel()
	o.stopwatch.Cancel()
}

// Snapshot returns a consistent copy of the session state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		Phase:          o.phase,
		Goal:           o.goal,
		RepCount:       o.repCount,
		ElapsedSeconds: o.elapsed,
		CountdownValue: o.countdownValue,
		BarY:           o.barY,
		Joints:         o.joints,
		GateHolds:      o.gate,
		Stopped:        o.stopped,
	}
}

// Record builds the session record from the current state.
func (o *Orchestrator) Record() Record {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recordLocked()
}

func (o *Orchestrator) recordLocked() Record {
	date := o.started
	if date.IsZero() {
		date = o.created
	}
	return Record{
		ID:               o.id,
		RepsCompleted:    o.repCount,
		TimeTakenSeconds: o.elapsed,
		Date:             date,
		Goal:             o.goal,
	}
}
