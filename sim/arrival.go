package sim

import (
	"fmt"

	"github.com/branchsim/branchsim/sim/dist"
)

// ArrivalProcess schedules the next arrival event from an interarrival
// sampler. It holds no state besides its collaborators, so it can be
// rebuilt whenever the arrival rate changes.
type ArrivalProcess struct {
	sampler dist.ContinuousSampler
	clock   *SimClock
	events  *EventList
	kind    EventKind
}

// NewArrivalProcess creates an ArrivalProcess scheduling events of kind.
func NewArrivalProcess(sampler dist.ContinuousSampler, clock *SimClock, events *EventList, kind EventKind) *ArrivalProcess {
	return &ArrivalProcess{sampler: sampler, clock: clock, events: events, kind: kind}
}

// GenerateNext schedules one arrival at now + a sampled interarrival time
// and returns the scheduled time.
func (a *ArrivalProcess) GenerateNext() (float64, error) {
	delta, err := DrawDuration(a.sampler, "interarrival")
	if err != nil {
		return 0, fmt.Errorf("generate arrival: %w", err)
	}
	t := a.clock.Now() + delta
	a.events.Add(NewEvent(a.kind, t))
	return t, nil
}

// Kind returns the event kind this process schedules.
func (a *ArrivalProcess) Kind() EventKind {
	return a.kind
}
