// Package report renders a finished workout as a shareable file and parses
// such files back.
package report

import "github.com/fakeyudi/repcount/internal/workout"

// Report is the complete, renderable summary of one workout.
type Report struct {
	Record  workout.Record `json:"record"`
	Athlete string         `json:"athlete,omitempty"`
	Streak  int            `json:"streak"` // days in a row with a met goal, this one included
}
