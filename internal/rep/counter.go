package rep

// Phase is the two-state motion model of the classifier.
type Phase int

const (
	// Idle waits for the tracked point to rise toward the bar.
	Idle Phase = iota
	// Descending waits for the tracked point to drop back below the top band.
	Descending
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Descending:
		return "descending"
	}
	return "unknown"
}

// Counter is the rep classifier. The zero value is ready to use.
// A Counter is not safe for concurrent use; the session that owns it
// serializes calls to Update.
type Counter struct {
	phase   Phase
	lastY   float64
	hasLast bool
}

// Update feeds the average y of the neck and shoulders for one frame and
// reports whether that frame completed a repetition.
func (c *Counter) Update(avgY, barY float64, cfg Config) (completed bool) {
	defer func() {
		c.lastY = avgY
		c.hasLast = true
	}()
	if !c.hasLast {
		return false
	}

	velocity := avgY - c.lastY

	switch c.phase {
	case Idle:
		if velocity < cfg.DownVelocity && avgY < barY+cfg.BottomOffset {
			c.phase = Descending
		}
	case Descending:
		if velocity > cfg.UpVelocity && avgY > barY+cfg.TopOffset {
			c.phase = Idle
			return true
		}
	}
	return false
}

// Phase returns the current classifier phase.
func (c *Counter) Phase() Phase {
	return c.phase
}

// Reset returns the counter to its initial state.
func (c *Counter) Reset() {
	*c = Counter{}
}
