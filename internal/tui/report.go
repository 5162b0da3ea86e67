package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/repcount/internal/report"
)

// Report shows one saved workout report.
type Report struct {
	pager
	report *report.Report
}

// NewReport creates a report screen for r loaded from filename.
func NewReport(r *report.Report, filename string) Report {
	return Report{pager: pager{title: filepath.Base(filename)}, report: r}
}

func (m Report) Init() tea.Cmd { return nil }

func (m Report) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		cmd := m.update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height, RenderReport(m.report))
		return m, nil
	}
	return m, nil
}

func (m Report) View() string {
	return m.view("  ↑/↓ scroll  q quit")
}

// RenderReport renders the body of a report screen.
func RenderReport(r *report.Report) string {
	rec := r.Record
	var sb strings.Builder
	sb.WriteString(heading("Workout"))
	if r.Athlete != "" {
		row(&sb, "Athlete:", r.Athlete)
	}
	row(&sb, "Date:", rec.Date.Format("2006-01-02 15:04:05 MST"))
	row(&sb, "Reps:", fmt.Sprintf("%d / %d", rec.RepsCompleted, rec.Goal))
	row(&sb, "Time:", clockText(rec.TimeTakenSeconds))
	row(&sb, "Goal:", goalBadge(rec.GoalMet()))
	row(&sb, "Streak:", fmt.Sprintf("%d day%s", r.Streak, plural(r.Streak)))
	row(&sb, "ID:", dimStyle.Render(rec.ID.String()))
	return sb.String()
}

// RunReport shows the report screen.
func RunReport(r *report.Report, filename string) error {
	return run(NewReport(r, filename))
}
