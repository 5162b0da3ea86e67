// Package rep converts the vertical motion of the upper body into completed
// repetitions. Positions are normalized to the frame height (0 at the top,
// 1 at the bottom), so moving up means y decreases.
package rep

import (
	"fmt"
	"math"
)

// Config holds the detection thresholds, all in normalized units.
// A Config is a value: build a new one between sessions rather than mutating
// the one a session is using.
type Config struct {
	// DownVelocity is the (negative) per-sample delta that enters the
	// descending phase.
	DownVelocity float64 `json:"down_velocity"`
	// UpVelocity is the (positive) per-sample delta that completes a rep.
	UpVelocity float64 `json:"up_velocity"`
	// BottomOffset is how far below the bar the entry band reaches.
	BottomOffset float64 `json:"bottom_offset"`
	// TopOffset is how far past the bar the tracked point must travel to
	// complete a rep.
	TopOffset float64 `json:"top_offset"`
}

// DefaultConfig returns the thresholds tuned for a pull-up filmed from the front.
func DefaultConfig() Config {
	return Config{
		DownVelocity: -0.0048,
		UpVelocity:   0.0048,
		BottomOffset: 0.047,
		TopOffset:    0.071,
	}
}

// NewConfig builds a validated Config.
func NewConfig(down, up, bottom, top float64) (Config, error) {
	c := Config{DownVelocity: down, UpVelocity: up, BottomOffset: bottom, TopOffset: top}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks down < 0 < up and that both offsets are non-negative.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.DownVelocity) || c.DownVelocity >= 0:
		return &ConfigError{Field: "down_velocity", Value: c.DownVelocity, Reason: "must be negative"}
	case math.IsNaN(c.UpVelocity) || c.UpVelocity <= 0:
		return &ConfigError{Field: "up_velocity", Value: c.UpVelocity, Reason: "must be positive"}
	case math.IsNaN(c.BottomOffset) || c.BottomOffset < 0:
		return &ConfigError{Field: "bottom_offset", Value: c.BottomOffset, Reason: "must not be negative"}
	case math.IsNaN(c.TopOffset) || c.TopOffset < 0:
		return &ConfigError{Field: "top_offset", Value: c.TopOffset, Reason: "must not be negative"}
	}
	return nil
}

// ConfigError is returned when a threshold violates its invariant.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid detection config: %s %v %s", e.Field, e.Value, e.Reason)
}
