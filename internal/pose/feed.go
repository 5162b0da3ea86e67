package pose

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// Event is one line of a sample feed. A line may carry a joint sample, a bar
// update, or both.
type Event struct {
	Sample *Sample
	Bar    *float64
}

// wireEvent is the JSON Lines shape written by the capture pipeline:
//
//	{"joints": {"neck": [0.5, 0.41], "left_wrist": [0.32, 0.52]}}
//	{"bar": 0.5}
//	{"bar_points": [[0.2, 0.49], [0.8, 0.51]]}
type wireEvent struct {
	Joints    map[string][]float64 `json:"joints,omitempty"`
	Bar       *float64             `json:"bar,omitempty"`
	BarPoints [][]float64          `json:"bar_points,omitempty"`
}

// ErrEmptyEvent is returned by ParseEvent for a line with nothing usable on it.
var ErrEmptyEvent = errors.New("event carries no joints or bar")

// ParseEvent decodes a single feed line. Joints with unknown names or with
// coordinates outside [0,1] are treated as absent.
func ParseEvent(line []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(line, &w); err != nil {
		return Event{}, fmt.Errorf("decoding feed line: %w", err)
	}

	var ev Event
	if w.Joints != nil {
		var s Sample
		for name, xy := range w.Joints {
			j, ok := ParseJoint(name)
			if !ok {
				continue
			}
			p, ok := toPoint(xy)
			if !ok {
				continue
			}
			s = s.With(j, p)
		}
		ev.Sample = &s
	}

	switch {
	case w.Bar != nil:
		if inUnit(*w.Bar) {
			y := *w.Bar
			ev.Bar = &y
		}
	case len(w.BarPoints) == 2:
		a, ok1 := toPoint(w.BarPoints[0])
		b, ok2 := toPoint(w.BarPoints[1])
		if ok1 && ok2 {
			y := BarMidpoint(a, b)
			ev.Bar = &y
		}
	}

	if ev.Sample == nil && ev.Bar == nil {
		return Event{}, ErrEmptyEvent
	}
	return ev, nil
}

// MarshalEvent encodes ev as one feed line, without the trailing newline.
func MarshalEvent(ev Event) ([]byte, error) {
	var w wireEvent
	if ev.Sample != nil {
		w.Joints = make(map[string][]float64)
		for _, j := range Joints {
			if p, ok := ev.Sample.Get(j); ok {
				w.Joints[j.String()] = []float64{p.X, p.Y}
			}
		}
	}
	w.Bar = ev.Bar
	return json.Marshal(w)
}

func toPoint(xy []float64) (Point, bool) {
	if len(xy) != 2 || !inUnit(xy[0]) || !inUnit(xy[1]) {
		return Point{}, false
	}
	return Point{X: xy[0], Y: xy[1]}, true
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// Decoder reads feed events from a stream, skipping lines it cannot use.
type Decoder struct {
	scanner *bufio.Scanner
	log     *slog.Logger
	line    int
	skipped int
}

// NewDecoder returns a Decoder reading from r. A nil logger discards.
func NewDecoder(r io.Reader, log *slog.Logger) *Decoder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Decoder{scanner: sc, log: log}
}

// Next returns the next usable event, or io.EOF when the stream is exhausted.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		d.line++
		text := strings.TrimSpace(d.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		ev, err := ParseEvent([]byte(text))
		if err != nil {
			d.skipped++
			d.log.Warn("skipping feed line", "line", d.line, "err", err)
			continue
		}
		return ev, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("reading feed: %w", err)
	}
	return Event{}, io.EOF
}

// Skipped returns how many lines were dropped as malformed.
func (d *Decoder) Skipped() int {
	return d.skipped
}
