package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/repcount/internal/workout"
)

// PollInterval is how often Live reads the session snapshot.
const PollInterval = 100 * time.Millisecond

// Session is the part of a workout.Orchestrator the live screen reads.
type Session interface {
	Snapshot() workout.Snapshot
	Done() <-chan struct{}
	Stop()
}

type doneMsg struct{}

// Live renders a running session. It never mutates the session except to
// stop it when the athlete quits.
type Live struct {
	session Session
	title   string
	snap    workout.Snapshot
	bar     progress.Model
	width   int
}

// NewLive returns a live screen for s.
func NewLive(s Session, title string) Live {
	return Live{
		session: s,
		title:   title,
		snap:    s.Snapshot(),
		bar:     progress.New(progress.WithDefaultGradient()),
		width:   60,
	}
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitDone(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

func (m Live) Init() tea.Cmd {
	return tea.Batch(tick(), waitDone(m.session.Done()))
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.session.Stop()
			m.snap = m.session.Snapshot()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, msg.Width-8)
	case tickMsg:
		m.snap = m.session.Snapshot()
		if m.snap.Stopped {
			return m, tea.Quit
		}
		return m, tick()
	case doneMsg:
		m.snap = m.session.Snapshot()
		return m, tea.Quit
	}
	return m, nil
}

func (m Live) View() string {
	s := m.snap
	title := titleStyle.Width(m.width).Render("  repcount  " + m.title)

	var sb strings.Builder
	switch s.Phase {
	case workout.AwaitingAlignment:
		sb.WriteString(heading("Get ready"))
		sb.WriteString("  Grip the bar so both wrists sit on the line.\n\n")
		if s.GateHolds {
			row(&sb, "Wrists:", metStyle.Render("aligned"))
		} else {
			row(&sb, "Wrists:", dimStyle.Render("not aligned"))
		}
	case workout.Countdown:
		sb.WriteString(heading("Starting in"))
		sb.WriteString(countdownStyle.Render(fmt.Sprint(s.CountdownValue)) + "\n")
	default:
		label := "Go!"
		if s.Phase == workout.Finished {
			label = "Goal reached"
		}
		sb.WriteString(heading(label))
		pct := 0.0
		if s.Goal > 0 {
			pct = float64(s.RepCount) / float64(s.Goal)
		}
		sb.WriteString("  " + m.bar.ViewAs(pct) + "\n\n")
		row(&sb, "Reps:", fmt.Sprintf("%d / %d", s.RepCount, s.Goal))
		row(&sb, "Time:", timeStyle.Render(clockText(s.ElapsedSeconds)))
	}

	status := statusBar(m.width, "  q stop", s.Phase.String())
	return lipgloss.JoinVertical(lipgloss.Left, title, sb.String(), status)
}

// RunLive shows the live screen until the session finishes, stops, or the
// athlete quits. Keys are read from the controlling terminal so stdin stays
// free for the feed.
func RunLive(s Session, title string) error {
	return run(NewLive(s, title), tea.WithInputTTY())
}
