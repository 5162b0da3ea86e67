package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/repcount/internal/history"
	"github.com/fakeyudi/repcount/internal/tui"
	"github.com/fakeyudi/repcount/internal/workout"
)

var historyPlain bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past sessions and your current streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		records, err := store.Load()
		if err != nil {
			return err
		}

		now := time.Now()
		if historyPlain || !isTerminal(cmd.OutOrStdout()) {
			printHistory(cmd.OutOrStdout(), records, now)
			return nil
		}
		return tui.RunHistory(records, now)
	},
}

// printHistory writes a plain-text summary, newest session first.
func printHistory(w io.Writer, records []workout.Record, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no sessions recorded")
		return
	}

	sum := history.Summarize(records)
	fmt.Fprintf(w, "Streak: %d day(s)\n", history.Streak(records, now))
	fmt.Fprintf(w, "Sessions: %d\n", sum.Sessions)
	fmt.Fprintf(w, "Total reps: %d\n", sum.TotalReps)
	fmt.Fprintf(w, "Goals met: %d\n", sum.GoalsMet)
	if sum.Fastest != nil {
		fmt.Fprintf(w, "Fastest: %s for %d reps\n", clockText(sum.Fastest.TimeTakenSeconds), sum.Fastest.RepsCompleted)
	}
	fmt.Fprintln(w)

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		status := "missed"
		if r.GoalMet() {
			status = "met"
		}
		fmt.Fprintf(w, "%s  %d/%d  %s  %s\n",
			r.Date.Local().Format("2006-01-02 15:04"), r.RepsCompleted, r.Goal, clockText(r.TimeTakenSeconds), status)
	}
}

func init() {
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(historyCmd)
}
