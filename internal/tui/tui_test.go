package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fakeyudi/repcount/internal/report"
	"github.com/fakeyudi/repcount/internal/workout"
)

type fakeSession struct {
	mu      sync.Mutex
	snap    workout.Snapshot
	done    chan struct{}
	stopped int
}

func newFakeSession(s workout.Snapshot) *fakeSession {
	return &fakeSession{snap: s, done: make(chan struct{})}
}

func (f *fakeSession) Snapshot() workout.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSession) set(s workout.Snapshot) {
	f.mu.Lock()
	f.snap = s
	f.mu.Unlock()
}

func (f *fakeSession) Done() <-chan struct{} { return f.done }

func (f *fakeSession) Stop() {
	f.mu.Lock()
	f.stopped++
	f.snap.Stopped = true
	f.mu.Unlock()
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLiveShowsEachPhase(t *testing.T) {
	s := newFakeSession(workout.Snapshot{Phase: workout.AwaitingAlignment, Goal: 5})
	var m tea.Model = NewLive(s, "pull-ups")

	if v := m.View(); !strings.Contains(v, "Get ready") || !strings.Contains(v, "not aligned") {
		t.Errorf("awaiting view:\n%s", v)
	}

	s.set(workout.Snapshot{Phase: workout.Countdown, Goal: 5, CountdownValue: 2})
	m, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule another tick")
	}
	if v := m.View(); !strings.Contains(v, "Starting in") || !strings.Contains(v, "2") {
		t.Errorf("countdown view:\n%s", v)
	}

	s.set(workout.Snapshot{Phase: workout.Running, Goal: 5, RepCount: 3, ElapsedSeconds: 75})
	m, _ = m.Update(tickMsg(time.Now()))
	v := m.View()
	for _, want := range []string{"Go!", "3 / 5", "1:15", "running"} {
		if !strings.Contains(v, want) {
			t.Errorf("running view missing %q:\n%s", want, v)
		}
	}
}

func TestLiveQuitStopsSession(t *testing.T) {
	s := newFakeSession(workout.Snapshot{Phase: workout.Running, Goal: 5})
	m := NewLive(s, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(t, cmd) {
		t.Error("q should quit")
	}
	if s.stopped != 1 {
		t.Errorf("Stop called %d times, want 1", s.stopped)
	}
}

func TestLiveQuitsWhenDone(t *testing.T) {
	s := newFakeSession(workout.Snapshot{Phase: workout.Running, Goal: 1})
	m := NewLive(s, "")

	close(s.done)
	msg := waitDone(s.Done())()
	s.set(workout.Snapshot{Phase: workout.Finished, Goal: 1, RepCount: 1})
	next, cmd := m.Update(msg)
	if !isQuit(t, cmd) {
		t.Error("done should quit")
	}
	if !strings.Contains(next.View(), "Goal reached") {
		t.Errorf("finished view:\n%s", next.View())
	}
	if s.stopped != 0 {
		t.Error("finishing must not call Stop")
	}
}

func TestLiveQuitsWhenStoppedElsewhere(t *testing.T) {
	s := newFakeSession(workout.Snapshot{Phase: workout.Running, Goal: 5, Stopped: true})
	_, cmd := NewLive(s, "").Update(tickMsg(time.Now()))
	if !isQuit(t, cmd) {
		t.Error("a stopped session should end the live screen")
	}
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	records := []workout.Record{
		{ID: uuid.New(), RepsCompleted: 10, Goal: 10, TimeTakenSeconds: 80, Date: now.Add(-24 * time.Hour)},
		{ID: uuid.New(), RepsCompleted: 10, Goal: 10, TimeTakenSeconds: 70, Date: now.Add(-time.Hour)},
	}
	out := RenderHistory(records, now, false)
	for _, want := range []string{"2 days", "Total reps:", "20", "1:10 for 10 reps", "Sessions (2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	newest := strings.Index(out, "2026-10-18 19:00")
	oldest := strings.Index(out, "2026-10-17 20:00")
	if newest < 0 || oldest < 0 || newest > oldest {
		t.Errorf("want newest first:\n%s", out)
	}
	if records[0].Date.After(records[1].Date) {
		t.Error("RenderHistory reordered the caller's slice")
	}

	if empty := RenderHistory(nil, now, false); !strings.Contains(empty, "none yet") {
		t.Errorf("empty history:\n%s", empty)
	}
}

func TestHistoryModelSortToggle(t *testing.T) {
	var m tea.Model = NewHistory(nil, time.Now())
	if m.View() != "Loading…" {
		t.Errorf("view before size: %q", m.View())
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(m.View(), "newest first") {
		t.Errorf("default order:\n%s", m.View())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !strings.Contains(m.View(), "oldest first") {
		t.Errorf("after toggle:\n%s", m.View())
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); !isQuit(t, cmd) {
		t.Error("q should quit")
	}
}

func TestReportModel(t *testing.T) {
	r := &report.Report{
		Record:  workout.Record{ID: uuid.New(), RepsCompleted: 4, Goal: 10, TimeTakenSeconds: 30},
		Athlete: "Sam",
		Streak:  1,
	}
	var m tea.Model = NewReport(r, "/tmp/out/workout.md")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v := m.View()
	for _, want := range []string{"workout.md", "Sam", "4 / 10", "MISSED", "1 day"} {
		if !strings.Contains(v, want) {
			t.Errorf("report view missing %q:\n%s", want, v)
		}
	}
}
