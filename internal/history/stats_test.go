package history

import (
	"testing"
	"time"

	"github.com/fakeyudi/repcount/internal/workout"
)

func day(d, hour int) time.Time {
	return time.Date(2026, 10, d, hour, 0, 0, 0, time.UTC)
}

func met(d int) workout.Record {
	return workout.Record{RepsCompleted: 10, Goal: 10, Date: day(d, 7), TimeTakenSeconds: 60 + d}
}

func missed(d int) workout.Record {
	return workout.Record{RepsCompleted: 4, Goal: 10, Date: day(d, 7), TimeTakenSeconds: 30}
}

func TestStreak(t *testing.T) {
	now := day(18, 20)
	cases := []struct {
		name    string
		records []workout.Record
		want    int
	}{
		{"empty", nil, 0},
		{"today only", []workout.Record{met(18)}, 1},
		{"yesterday keeps streak alive", []workout.Record{met(16), met(17)}, 2},
		{"gap ends streak", []workout.Record{met(14), met(16), met(17), met(18)}, 3},
		{"two sessions same day count once", []workout.Record{met(17), met(18), met(18)}, 2},
		{"missed goal does not count", []workout.Record{met(16), missed(17), met(18)}, 1},
		{"missed today falls back to yesterday", []workout.Record{met(16), met(17), missed(18)}, 2},
		{"stale run", []workout.Record{met(10), met(11)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.records, now); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]workout.Record{met(15), missed(16), met(12)})
	if s.Sessions != 3 || s.TotalReps != 24 || s.GoalsMet != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Fastest == nil || s.Fastest.TimeTakenSeconds != 72 {
		t.Errorf("Fastest: got %+v, want the 72s session", s.Fastest)
	}

	if empty := Summarize(nil); empty.Fastest != nil || empty.Sessions != 0 {
		t.Errorf("empty summary: %+v", empty)
	}
}
