// Package tui provides the Bubble Tea screens for a live session, the stored
// history and a saved report.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Section heading
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	metStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	missedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Big countdown digit
	countdownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Padding(1, 4)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
}

// clockText formats seconds as m:ss.
func clockText(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func goalBadge(met bool) string {
	if met {
		return metStyle.Render("MET")
	}
	return missedStyle.Render("MISSED")
}

// statusBar renders hint on the left and right on the right edge.
func statusBar(width int, hint, right string) string {
	pad := width - lipgloss.Width(hint) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(width).Render(hint + strings.Repeat(" ", pad) + right)
}

// pager is the scrollable frame shared by the history and report screens.
type pager struct {
	title  string
	vp     viewport.Model
	width  int
	height int
	ready  bool
}

// resize lays the viewport out below the title bar and above the status bar.
func (p *pager) resize(width, height int, content string) {
	p.width = width
	p.height = height
	// title(1) + statusBar(1) = 2 fixed rows
	vpHeight := height - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	p.vp = viewport.New(width, vpHeight)
	p.vp.SetContent(content)
	p.ready = true
}

func (p *pager) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p pager) view(hint string) string {
	if !p.ready {
		return "Loading…"
	}
	title := titleStyle.Width(p.width).Render("  repcount  " + p.title)
	pct := fmt.Sprintf("%3.0f%%", p.vp.ScrollPercent()*100)
	return lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View(), statusBar(p.width, hint, pct))
}

func run(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...).Run()
	return err
}

// tickMsg drives Live's snapshot polling.
type tickMsg time.Time
