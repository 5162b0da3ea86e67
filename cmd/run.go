package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/repcount/internal/history"
	"github.com/fakeyudi/repcount/internal/pose"
	"github.com/fakeyudi/repcount/internal/report"
	"github.com/fakeyudi/repcount/internal/tui"
	"github.com/fakeyudi/repcount/internal/workout"
)

var (
	runGoal     int
	runBar      float64
	runFollow   bool
	runPlain    bool
	runFormat   string
	runOut      string
	runReport   bool
	runFPS      float64
	runInterval time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [feed]",
	Short: "Run a pull-up session from a pose feed file or stdin",
	Long: `Run a pull-up session.

The feed is JSON Lines, one event per line:

  {"bar": 0.5}
  {"joints": {"neck": [0.5, 0.41], "left_shoulder": [0.42, 0.45], ...}}

With no feed argument (or "-") events are read from stdin. --follow keeps
reading a file as another process appends to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkout,
}

func runWorkout(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	conf := GetConfig()

	goal := conf.Goal
	if runGoal != 0 {
		goal = runGoal
	}

	path := ""
	if len(args) == 1 && args[0] != "-" {
		path = args[0]
	}
	if runFollow && path == "" {
		return errors.New("--follow needs a feed file")
	}

	format := runFormat
	if format == "" {
		format = conf.DefaultFormat
	}
	renderer, err := report.ForFormat(format)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	sess, err := workout.New(workout.Options{
		Goal:          goal,
		Detection:     conf.DetectionConfig(),
		Gate:          conf.GateConfig(),
		CountdownFrom: conf.CountdownFrom,
		Interval:      runInterval,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	if runBar >= 0 {
		sess.OnBarUpdate(runBar)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var in io.Reader
	switch {
	case path == "":
		in = cmd.InOrStdin()
	case !runFollow:
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("feed not found: %s", path)
			}
			return err
		}
		defer f.Close()
		in = f
	}
	events, feedErrc := startFeed(ctx, path, in)

	var pace time.Duration
	if runFPS > 0 && !runFollow {
		pace = time.Duration(float64(time.Second) / runFPS)
	}

	if !runPlain && isTerminal(out) {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			drive(ctx, sess, events, pace, nil)
		}()
		err := tui.RunLive(sess, liveTitle(goal))
		cancel()
		wg.Wait()
		if err != nil {
			return err
		}
	} else {
		drive(ctx, sess, events, pace, plainProgress(out))
		cancel()
	}

	var feedErr error
	select {
	case feedErr = <-feedErrc:
	default:
	}
	if feedErr != nil {
		feedErr = fmt.Errorf("reading feed: %w", feedErr)
	}

	// Sessions that never left alignment or the countdown are still kept,
	// as 0-rep records.
	if phase := sess.Snapshot().Phase; phase == workout.AwaitingAlignment || phase == workout.Countdown {
		fmt.Fprintln(out, "Session ended before it started.")
	}

	rec := sess.Record()
	if err := store.Append(rec); err != nil {
		return err
	}
	records, err := store.Load()
	if err != nil {
		return err
	}
	streak := history.Streak(records, time.Now())

	if rec.GoalMet() {
		fmt.Fprintf(out, "Goal reached: %d/%d in %s\n", rec.RepsCompleted, rec.Goal, clockText(rec.TimeTakenSeconds))
	} else {
		fmt.Fprintf(out, "Stopped at %d/%d after %s\n", rec.RepsCompleted, rec.Goal, clockText(rec.TimeTakenSeconds))
	}
	fmt.Fprintf(out, "Streak: %d day(s)\n", streak)

	if runReport || runOut != "" {
		outPath, err := writeReport(rec, streak, renderer, format, conf.OutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report: %s\n", outPath)
	}
	return feedErr
}

// startFeed decodes events from in, or follows path when in is nil, and
// sends them on the returned channel. The error channel receives the feed's
// final error before the event channel is closed.
func startFeed(ctx context.Context, path string, in io.Reader) (<-chan pose.Event, <-chan error) {
	log := logger
	events := make(chan pose.Event)
	errc := make(chan error, 1)
	send := func(ev pose.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(events)
		if in == nil {
			errc <- pose.Follow(ctx, path, log, send)
			return
		}
		dec := pose.NewDecoder(in, log)
		for {
			ev, err := dec.Next()
			if errors.Is(err, io.EOF) {
				if n := dec.Skipped(); n > 0 {
					log.Warn("feed lines skipped", "count", n)
				}
				errc <- nil
				return
			}
			if err != nil {
				errc <- err
				return
			}
			if !send(ev) {
				errc <- nil
				return
			}
		}
	}()
	return events, errc
}

// drive applies events to sess until the feed ends, ctx is cancelled or the
// goal is reached, then stops the session. A positive pace spaces samples
// out for recorded feeds.
func drive(ctx context.Context, sess *workout.Orchestrator, events <-chan pose.Event, pace time.Duration, progress func(workout.Snapshot)) {
	defer sess.Stop()

	var pacer <-chan time.Time
	if pace > 0 {
		t := time.NewTicker(pace)
		defer t.Stop()
		pacer = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Bar != nil {
				sess.OnBarUpdate(*ev.Bar)
			}
			if ev.Sample != nil {
				if pacer != nil {
					select {
					case <-pacer:
					case <-ctx.Done():
						return
					}
				}
				sess.OnSample(*ev.Sample)
			}
			if progress != nil {
				progress(sess.Snapshot())
			}
		}
	}
}

// plainProgress prints phase changes and reps as they happen.
func plainProgress(w io.Writer) func(workout.Snapshot) {
	var last workout.Snapshot
	return func(s workout.Snapshot) {
		if s.Phase != last.Phase {
			switch s.Phase {
			case workout.Countdown:
				fmt.Fprintf(w, "Wrists aligned, starting in %d...\n", s.CountdownValue)
			case workout.Running:
				fmt.Fprintln(w, "Go!")
			}
		}
		for n := last.RepCount + 1; n <= s.RepCount; n++ {
			fmt.Fprintf(w, "Rep %d/%d\n", n, s.Goal)
		}
		last = s
	}
}

func writeReport(rec workout.Record, streak int, renderer report.Renderer, format, outputDir string) (string, error) {
	path := runOut
	if path == "" {
		ext := ".md"
		if format == "json" {
			ext = ".json"
		}
		if outputDir == "" {
			outputDir = "."
		}
		path = filepath.Join(outputDir, "repcount-"+rec.Date.Format("20060102-150405")+ext)
	}

	r := &report.Report{Record: rec, Streak: streak}
	if p := GetProfile(); p != nil {
		r.Athlete = p.Name
	}
	data, err := renderer.Render(r)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func liveTitle(goal int) string {
	if p := GetProfile(); p != nil && p.Name != "" {
		return fmt.Sprintf("%s · goal %d", p.Name, goal)
	}
	return fmt.Sprintf("goal %d", goal)
}

func clockText(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

func resetRunFlags() {
	runGoal = 0
	runBar = -1
	runFollow = false
	runPlain = false
	runFormat = ""
	runOut = ""
	runReport = false
	runFPS = 30
	runInterval = time.Second
}

func init() {
	runCmd.Flags().IntVarP(&runGoal, "goal", "g", 0, "rep goal (overrides config and profile)")
	runCmd.Flags().Float64Var(&runBar, "bar", -1, "bar height as a fraction of frame height, if the feed carries none")
	runCmd.Flags().BoolVarP(&runFollow, "follow", "f", false, "keep reading the feed file as it grows")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "plain text progress instead of TUI")
	runCmd.Flags().StringVar(&runFormat, "format", "", "report format: markdown or json (overrides config)")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "write the report to this path")
	runCmd.Flags().BoolVar(&runReport, "report", false, "write a report into the configured output directory")
	runCmd.Flags().Float64Var(&runFPS, "fps", 30, "replay rate for recorded feeds; 0 reads as fast as possible")
	runCmd.Flags().DurationVar(&runInterval, "interval", time.Second, "countdown and stopwatch period")
	_ = runCmd.Flags().MarkHidden("interval")
	rootCmd.AddCommand(runCmd)
}
