package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	versionSentinel = "<!-- repcount-report-version: 1 -->"
	dataPrefix      = "<!-- repcount-data: "
	dataSuffix      = " -->"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// ForFormat returns the renderer for "json" or "markdown".
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md", "":
		return &MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want json or markdown)", format)
	}
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a Report as Markdown with an embedded base64 JSON
// payload so MarkdownParser can recover it exactly.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(r *Report) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder
	sb.WriteString(versionSentinel + "\n")
	fmt.Fprintf(&sb, "%s%s%s\n\n", dataPrefix, encoded, dataSuffix)

	rec := r.Record
	fmt.Fprintf(&sb, "# Workout: %s\n\n", rec.Date.Format("2006-01-02 15:04"))

	sb.WriteString("## Summary\n\n")
	if r.Athlete != "" {
		fmt.Fprintf(&sb, "- Athlete: %s\n", r.Athlete)
	}
	fmt.Fprintf(&sb, "- Reps: %d / %d\n", rec.RepsCompleted, rec.Goal)
	fmt.Fprintf(&sb, "- Time: %s\n", rec.Duration())
	if rec.RepsCompleted > 0 && rec.TimeTakenSeconds > 0 {
		fmt.Fprintf(&sb, "- Pace: %.1f s/rep\n", float64(rec.TimeTakenSeconds)/float64(rec.RepsCompleted))
	}
	if rec.GoalMet() {
		sb.WriteString("- Goal: met\n")
	} else {
		sb.WriteString("- Goal: missed\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Streak\n\n")
	switch r.Streak {
	case 0:
		sb.WriteString("_No active streak._\n")
	case 1:
		sb.WriteString("1 day\n")
	default:
		fmt.Fprintf(&sb, "%d days\n", r.Streak)
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}
