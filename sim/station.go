package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/branchsim/branchsim/sim/dist"
)

// Station is a single server with a FIFO wait queue.
//
// The customer in service stays at the head of the queue: BeginService
// times the head, CompleteService removes it. While busy, exactly one
// departure event of the station's kind is pending on the EventList.
type Station struct {
	name    string
	queue   WaitQueue
	sampler dist.ContinuousSampler
	clock   *SimClock
	events  *EventList
	kind    EventKind

	busy             bool
	serviceStartedAt float64

	served           int
	totalServiceTime float64
	totalWaitTime    float64
}

// NewStation creates an idle station that schedules departures of kind.
func NewStation(name string, sampler dist.ContinuousSampler, clock *SimClock, events *EventList, kind EventKind) *Station {
	return &Station{
		name:    name,
		sampler: sampler,
		clock:   clock,
		events:  events,
		kind:    kind,
	}
}

// Name returns the station identifier used in queue-status snapshots.
func (s *Station) Name() string { return s.name }

// Kind returns the departure event kind this station schedules.
func (s *Station) Kind() EventKind { return s.kind }

// Enqueue appends c to the wait queue and stamps its queue entry time.
func (s *Station) Enqueue(c *Customer) {
	c.QueueEnteredAt = s.clock.Now()
	s.queue.Enqueue(c)
}

// BeginService starts serving the head customer and schedules its
// departure. The station must be idle with at least one customer waiting.
func (s *Station) BeginService() error {
	if s.busy {
		return fmt.Errorf("begin service at %s: %w", s.name, ErrStationBusy)
	}
	head := s.queue.Peek()
	if head == nil {
		return fmt.Errorf("begin service at %s: %w", s.name, ErrEmptyStationQueue)
	}
	duration, err := DrawDuration(s.sampler, s.name+" service")
	if err != nil {
		return fmt.Errorf("begin service at %s: %w", s.name, err)
	}

	now := s.clock.Now()
	s.totalWaitTime += now - head.QueueEnteredAt
	s.serviceStartedAt = now
	s.busy = true
	s.events.Add(NewEvent(s.kind, now+duration))

	logrus.Debugf("[t=%10.4f] %s begins service of customer %d (%.4f)", now, s.name, head.ID, duration)
	return nil
}

// CompleteService ends the current service and removes the served customer
// from the head of the queue. The station must be busy. A nil customer with
// a nil error means the queue was already empty; callers skip it.
func (s *Station) CompleteService() (*Customer, error) {
	if !s.busy {
		return nil, fmt.Errorf("complete service at %s: %w", s.name, ErrStationIdle)
	}
	now := s.clock.Now()
	s.busy = false
	s.totalServiceTime += now - s.serviceStartedAt
	s.served++

	c := s.queue.Dequeue()
	if c == nil {
		logrus.Warnf("[t=%10.4f] %s completed a service with an empty queue", now, s.name)
	}
	return c, nil
}

// QueueLength returns the number of customers at the station, including
// the one in service.
func (s *Station) QueueLength() int { return s.queue.Len() }

// IsBusy reports whether a service is in progress.
func (s *Station) IsBusy() bool { return s.busy }

// HasWaiting reports whether the queue is non-empty.
func (s *Station) HasWaiting() bool { return s.queue.Len() > 0 }

// Served returns the number of completed services.
func (s *Station) Served() int { return s.served }

// TotalServiceTime returns the accumulated service time.
func (s *Station) TotalServiceTime() float64 { return s.totalServiceTime }

// TotalWaitTime returns the accumulated queueing time.
func (s *Station) TotalWaitTime() float64 { return s.totalWaitTime }

// AverageServiceTime returns totalServiceTime/served, or 0 before the first
// completed service.
func (s *Station) AverageServiceTime() float64 {
	if s.served == 0 {
		return 0
	}
	return s.totalServiceTime / float64(s.served)
}

// AverageWaitTime returns totalWaitTime/served, or 0 before the first
// completed service.
func (s *Station) AverageWaitTime() float64 {
	if s.served == 0 {
		return 0
	}
	return s.totalWaitTime / float64(s.served)
}

// SnapshotQueue returns copies of the queued customers in FIFO order.
func (s *Station) SnapshotQueue() []Customer {
	return s.queue.Snapshot()
}
