package workout

import (
	"errors"
	"math"

	"github.com/fakeyudi/repcount/internal/pose"
)

// ErrInvalidGate is returned when a gate tolerance or offset is negative.
var ErrInvalidGate = errors.New("wrist tolerance and bar offset must not be negative")

// GateConfig positions the alignment band the wrists must sit in before a
// session may start.
type GateConfig struct {
	// WristTolerance is the half-height of the band.
	WristTolerance float64 `json:"wrist_tolerance"`
	// WristBarOffset moves the band's centre below the bar line, where the
	// wrists sit when the hands grip the bar.
	WristBarOffset float64 `json:"wrist_bar_offset"`
}

// DefaultGate returns the band used by the pull-up model.
func DefaultGate() GateConfig {
	return GateConfig{WristTolerance: 0.036, WristBarOffset: 0.024}
}

// Validate rejects negative or NaN values.
func (g GateConfig) Validate() error {
	if math.IsNaN(g.WristTolerance) || math.IsNaN(g.WristBarOffset) ||
		g.WristTolerance < 0 || g.WristBarOffset < 0 {
		return ErrInvalidGate
	}
	return nil
}

// WristsNearBar reports whether both wrists are present and strictly within
// the tolerance of barY+WristBarOffset.
func WristsNearBar(s pose.Sample, barY float64, g GateConfig) bool {
	lw, ok1 := s.Get(pose.LeftWrist)
	rw, ok2 := s.Get(pose.RightWrist)
	if !ok1 || !ok2 {
		return false
	}
	target := barY + g.WristBarOffset
	return math.Abs(lw.Y-target) < g.WristTolerance &&
		math.Abs(rw.Y-target) < g.WristTolerance
}
