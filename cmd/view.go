package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/repcount/internal/report"
	"github.com/fakeyudi/repcount/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <report>",
	Short: "View a saved workout report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		r, err := report.Detect(data).Parse(data)
		if err != nil {
			return err
		}

		if plainOutput || !isTerminal(cmd.OutOrStdout()) {
			printReport(cmd.OutOrStdout(), r)
			return nil
		}
		return tui.RunReport(r, path)
	},
}

// printReport writes a plain-text summary.
func printReport(w io.Writer, r *report.Report) {
	rec := r.Record
	fmt.Fprintln(w, "## Workout")
	if r.Athlete != "" {
		fmt.Fprintf(w, "  Athlete:  %s\n", r.Athlete)
	}
	fmt.Fprintf(w, "  Date:     %s\n", rec.Date.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Reps:     %d/%d\n", rec.RepsCompleted, rec.Goal)
	fmt.Fprintf(w, "  Time:     %s\n", clockText(rec.TimeTakenSeconds))
	if rec.GoalMet() {
		fmt.Fprintln(w, "  Goal:     met")
	} else {
		fmt.Fprintln(w, "  Goal:     missed")
	}
	fmt.Fprintf(w, "  Streak:   %d day(s)\n", r.Streak)
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
