package sim

import "fmt"

// SimClock holds the current simulated time of one run.
// It is owned by the Engine and advanced only by the phase loop; stations,
// arrival processes and reports read it through Now.
type SimClock struct {
	time float64
}

// NewSimClock returns a clock at time zero.
func NewSimClock() *SimClock {
	return &SimClock{}
}

// Now returns the current simulated time.
func (c *SimClock) Now() float64 {
	return c.time
}

// Reset rewinds the clock to zero at the start of a run.
func (c *SimClock) Reset() {
	c.time = 0
}

// AdvanceTo moves the clock forward. Time never moves backwards; a smaller
// target means the event ordering was broken and the run cannot continue.
func (c *SimClock) AdvanceTo(t float64) error {
	if t < c.time {
		return fmt.Errorf("advance to %.6f from %.6f: %w", t, c.time, ErrClockBackwards)
	}
	c.time = t
	return nil
}
