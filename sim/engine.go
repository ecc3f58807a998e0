package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Model is the domain side of a run. The Engine owns time and the event
// list; the Model owns stations and decides what events mean.
type Model interface {
	// Initialize prepares a run, typically by scheduling the first arrival.
	Initialize() error
	// HandleEvent executes one due event (phase B).
	HandleEvent(ev Event) error
	// TryStartIdleServices starts service at every idle station with a
	// waiting customer (phase C).
	TryStartIdleServices() error
	// Finalize emits the end-of-run report. It is not called for cancelled
	// or failed runs.
	Finalize() error
}

// RunStatus is the outcome of Engine.Run.
type RunStatus int

const (
	// StatusCompleted means the clock reached the horizon and Finalize ran.
	StatusCompleted RunStatus = iota
	// StatusCancelled means the context was cancelled; no report was made.
	StatusCancelled
	// StatusFailed means a fatal error stopped the run.
	StatusFailed
)

func (s RunStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("RunStatus(%d)", int(s))
	}
}

// Engine runs the three-phase loop: (A) advance the clock to the earliest
// pending event, (B) dispatch every event due at that time, (C) let the
// model start new services. Only then does time advance again, so no
// station sits idle with waiting customers across a time step.
//
// Engine state is touched only by the goroutine calling Run.
type Engine struct {
	HookableBase

	clock   *SimClock
	events  *EventList
	horizon float64
	control *RunControl
}

// NewEngine creates an engine that stops once the clock reaches horizon.
// A nil control gets a fresh RunControl.
func NewEngine(horizon float64, control *RunControl) *Engine {
	if control == nil {
		control = NewRunControl()
	}
	return &Engine{
		clock:   NewSimClock(),
		events:  NewEventList(),
		horizon: horizon,
		control: control,
	}
}

// Clock returns the engine's clock.
func (e *Engine) Clock() *SimClock { return e.clock }

// Events returns the engine's event list.
func (e *Engine) Events() *EventList { return e.events }

// Horizon returns the simulated stop time.
func (e *Engine) Horizon() float64 { return e.horizon }

// Control returns the engine's run control.
func (e *Engine) Control() *RunControl { return e.control }

// Run resets the clock and event list, initializes m and runs the phase
// loop until the horizon. Cancellation of ctx is observed at every phase
// boundary and around every throttle delay; it returns StatusCancelled
// with a nil error.
func (e *Engine) Run(ctx context.Context, m Model) (RunStatus, error) {
	e.clock.Reset()
	e.events.Reset()

	if err := m.Initialize(); err != nil {
		return e.fail(fmt.Errorf("initialize: %w", err))
	}
	logrus.Infof("[t=%10.4f] run started, horizon=%.4f", e.clock.Now(), e.horizon)

	for e.clock.Now() < e.horizon {
		if err := e.boundary(ctx); err != nil {
			if isCancellation(err) {
				return e.cancelled()
			}
			return e.fail(err)
		}

		// Phase A
		next, err := e.events.PeekTime()
		if err != nil {
			return e.fail(fmt.Errorf("phase A: %w", err))
		}
		if err := e.clock.AdvanceTo(next); err != nil {
			return e.fail(fmt.Errorf("phase A: %w", err))
		}
		now := e.clock.Now()
		logrus.Tracef("[t=%10.4f] phase A", now)
		e.InvokeHook(HookCtx{Pos: HookPosAfterAdvance, Now: now})

		// Phase B
		for e.events.Len() > 0 {
			t, _ := e.events.PeekTime()
			if t != now {
				break
			}
			if err := e.pace(ctx); err != nil {
				return e.cancelled()
			}
			ev, _ := e.events.RemoveNext()
			logrus.Debugf("[t=%10.4f] dispatch %s", now, ev.Kind())
			if err := m.HandleEvent(ev); err != nil {
				return e.fail(fmt.Errorf("phase B, %s: %w", ev, err))
			}
			e.InvokeHook(HookCtx{Pos: HookPosAfterEvent, Now: now, Item: ev})
		}

		// Phase C
		if err := m.TryStartIdleServices(); err != nil {
			return e.fail(fmt.Errorf("phase C: %w", err))
		}
		e.InvokeHook(HookCtx{Pos: HookPosAfterServiceStarts, Now: now})
	}

	if err := m.Finalize(); err != nil {
		return e.fail(fmt.Errorf("finalize: %w", err))
	}
	logrus.Infof("[t=%10.4f] run completed", e.clock.Now())
	return StatusCompleted, nil
}

// boundary applies submitted updates and waits out a pause.
func (e *Engine) boundary(ctx context.Context) error {
	if err := e.applyUpdates(); err != nil {
		return err
	}
	if e.control.Paused() {
		logrus.Infof("[t=%10.4f] paused", e.clock.Now())
	}
	if err := e.control.awaitResume(ctx); err != nil {
		return err
	}
	// Updates submitted while paused take effect before time moves on.
	return e.applyUpdates()
}

func (e *Engine) applyUpdates() error {
	for _, fn := range e.control.drain() {
		if err := fn(); err != nil {
			return fmt.Errorf("apply update: %w", err)
		}
	}
	return nil
}

// pace checks for cancellation before and after the throttle delay.
func (e *Engine) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return sleep(ctx, e.control.Throttle())
}

func (e *Engine) cancelled() (RunStatus, error) {
	logrus.Infof("[t=%10.4f] run cancelled", e.clock.Now())
	return StatusCancelled, nil
}

func (e *Engine) fail(err error) (RunStatus, error) {
	logrus.Errorf("[t=%10.4f] run failed: %v", e.clock.Now(), err)
	return StatusFailed, err
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
