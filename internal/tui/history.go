package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/repcount/internal/history"
	"github.com/fakeyudi/repcount/internal/workout"
)

// History lists stored workouts with the current streak on top.
type History struct {
	pager
	records []workout.Record
	now     time.Time
	sortAsc bool
}

// NewHistory returns a history screen. now anchors the streak.
func NewHistory(records []workout.Record, now time.Time) History {
	return History{pager: pager{title: "history"}, records: records, now: now}
}

func (m History) Init() tea.Cmd { return nil }

func (m History) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.sortAsc = !m.sortAsc
			if m.ready {
				m.vp.SetContent(RenderHistory(m.records, m.now, m.sortAsc))
				m.vp.GotoTop()
			}
			return m, nil
		}
		cmd := m.update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height, RenderHistory(m.records, m.now, m.sortAsc))
		return m, nil
	}
	return m, nil
}

func (m History) View() string {
	dir := "newest first"
	if m.sortAsc {
		dir = "oldest first"
	}
	return m.view("  ↑/↓ scroll  s sort (" + dir + ")  q quit")
}

// RenderHistory renders the summary header and one line per record.
func RenderHistory(records []workout.Record, now time.Time, asc bool) string {
	var sb strings.Builder
	sum := history.Summarize(records)

	sb.WriteString(heading("Progress"))
	streak := history.Streak(records, now)
	row(&sb, "Streak:", fmt.Sprintf("%d day%s", streak, plural(streak)))
	row(&sb, "Sessions:", fmt.Sprint(sum.Sessions))
	row(&sb, "Total reps:", fmt.Sprint(sum.TotalReps))
	row(&sb, "Goals met:", fmt.Sprintf("%d / %d", sum.GoalsMet, sum.Sessions))
	if sum.Fastest != nil {
		row(&sb, "Fastest:", fmt.Sprintf("%s for %d reps on %s",
			clockText(sum.Fastest.TimeTakenSeconds), sum.Fastest.RepsCompleted,
			sum.Fastest.Date.Format("2006-01-02")))
	}

	sb.WriteString(heading(fmt.Sprintf("Sessions (%d)", len(records))))
	if len(records) == 0 {
		sb.WriteString(dimStyle.Render("  (none yet, run 'repcount run' to start)") + "\n")
		return sb.String()
	}

	ordered := make([]workout.Record, len(records))
	copy(ordered, records)
	if !asc {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	for _, r := range ordered {
		ts := timeStyle.Render(r.Date.Format("2006-01-02 15:04"))
		fmt.Fprintf(&sb, "  %s  %3d / %-3d  %6s  %s\n",
			ts, r.RepsCompleted, r.Goal, clockText(r.TimeTakenSeconds), goalBadge(r.GoalMet()))
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// RunHistory shows the history screen.
func RunHistory(records []workout.Record, now time.Time) error {
	return run(NewHistory(records, now))
}
