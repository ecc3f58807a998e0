package sim

import "errors"

// Fatal run conditions. Each one means an invariant of the phase loop was
// broken, so the Engine stops and hands the error to its caller.
var (
	// ErrEmptyEventList is returned when the next event time is requested
	// from an empty EventList: an event handler stopped rescheduling.
	ErrEmptyEventList = errors.New("event list is empty")

	// ErrClockBackwards is returned when the clock is asked to move to an
	// earlier time.
	ErrClockBackwards = errors.New("simulation clock moved backwards")

	// ErrStationBusy is returned by BeginService on a station already serving.
	ErrStationBusy = errors.New("station is busy")

	// ErrStationIdle is returned by CompleteService on a station not serving.
	ErrStationIdle = errors.New("station is idle")

	// ErrEmptyStationQueue is returned by BeginService when nobody is waiting.
	ErrEmptyStationQueue = errors.New("station queue is empty")

	// ErrInvalidSample is returned when a sampler keeps producing negative or
	// non-finite values after one resample.
	ErrInvalidSample = errors.New("invalid sample")
)
