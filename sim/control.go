package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// RunControl carries the signals that cross into a running Engine from
// other goroutines: pause/resume, the per-event throttle, and model updates
// to apply at the next phase boundary. Cancellation travels separately on
// the context passed to Engine.Run.
//
// All methods are safe for concurrent use.
type RunControl struct {
	mu      sync.Mutex
	paused  bool
	resume  chan struct{} // closed while running
	pending []func() error

	throttle atomic.Int64 // nanoseconds
}

// NewRunControl returns a control in the running state with no throttle.
func NewRunControl() *RunControl {
	c := &RunControl{resume: make(chan struct{})}
	close(c.resume)
	return c
}

// Pause asks the engine to stop at the next phase boundary.
func (c *RunControl) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.resume = make(chan struct{})
}

// Resume releases a paused engine.
func (c *RunControl) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	close(c.resume)
}

// Paused reports whether a pause is requested.
func (c *RunControl) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetThrottle sets the wall-clock delay added before every dispatched
// event. Negative values are treated as zero.
func (c *RunControl) SetThrottle(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.throttle.Store(int64(d))
}

// Throttle returns the current per-event delay.
func (c *RunControl) Throttle() time.Duration {
	return time.Duration(c.throttle.Load())
}

// Submit queues fn to run on the engine goroutine at the next phase
// boundary. An error returned by fn fails the run.
func (c *RunControl) Submit(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, fn)
}

func (c *RunControl) drain() []func() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fns := c.pending
	c.pending = nil
	return fns
}

// awaitResume blocks while paused. It returns ctx.Err() if the context is
// cancelled first.
func (c *RunControl) awaitResume(ctx context.Context) error {
	c.mu.Lock()
	ch := c.resume
	c.mu.Unlock()

	select {
	case <-ch:
		return ctx.Err()
	default:
	}
	select {
	case <-ch:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
