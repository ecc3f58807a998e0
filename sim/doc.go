// Package sim provides the discrete-event scheduling core of branchsim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go, event_list.go: events and the time-ordered event list
//   - station.go: a single server with a FIFO queue and running statistics
//   - engine.go: the three-phase loop and the Model interface
//
// # Architecture
//
// The Engine owns the SimClock and the EventList and drives the loop
// advance time (A) → execute due events (B) → start new services (C).
// Everything domain-specific lives behind Model; sim/bank implements it for
// a bank branch. Samplers live in sim/dist, decision traces in sim/trace.
//
// # Concurrency
//
// Run executes on the caller's goroutine and is the only writer of engine,
// event and station state. Other goroutines interact only through
// RunControl (pause, throttle, submitted updates) and context cancellation.
package sim
