package history

import (
	"time"

	"github.com/fakeyudi/repcount/internal/workout"
)

// Streak counts consecutive calendar days, in now's location, on which at
// least one session met its goal. The run may end today or yesterday; a day
// without a met goal ends it. Several met sessions on the same day count as
// one day, so the result never exceeds the number of distinct days.
func Streak(records []workout.Record, now time.Time) int {
	met := make(map[time.Time]bool)
	for _, r := range records {
		if r.GoalMet() {
			met[startOfDay(r.Date.In(now.Location()))] = true
		}
	}

	day := startOfDay(now)
	if !met[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for met[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Summary aggregates a history.
type Summary struct {
	Sessions  int
	TotalReps int
	GoalsMet  int
	// Fastest is the quickest session that met its goal, nil if none did.
	Fastest *workout.Record
}

// Summarize totals records.
func Summarize(records []workout.Record) Summary {
	var s Summary
	for i, r := range records {
		s.Sessions++
		s.TotalReps += r.RepsCompleted
		if !r.GoalMet() {
			continue
		}
		s.GoalsMet++
		if s.Fastest == nil || r.TimeTakenSeconds < s.Fastest.TimeTakenSeconds {
			s.Fastest = &records[i]
		}
	}
	return s
}
