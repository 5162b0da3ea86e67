package workout

import (
	"time"

	"github.com/google/uuid"
)

// Record is the summary of one ended session, handed to whatever persists
// workout history.
type Record struct {
	ID               uuid.UUID `json:"id"`
	RepsCompleted    int       `json:"reps_completed"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	Date             time.Time `json:"date"` // when the stopwatch started
	Goal             int       `json:"goal"`
}

// GoalMet reports whether the session reached its target.
func (r Record) GoalMet() bool {
	return r.Goal > 0 && r.RepsCompleted >= r.Goal
}

// Duration returns the time taken as a time.Duration.
func (r Record) Duration() time.Duration {
	return time.Duration(r.TimeTakenSeconds) * time.Second
}
