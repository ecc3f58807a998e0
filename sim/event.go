package sim

import "fmt"

// EventType names a class of events. Domain models declare their own
// constants; the engine only orders and dispatches them.
type EventType string

// EventKind identifies what an event does: its type plus, for per-station
// events, the index of the station it belongs to.
type EventKind struct {
	Type  EventType
	Index int
}

// Kind returns an EventKind with no station index.
func Kind(t EventType) EventKind {
	return EventKind{Type: t, Index: -1}
}

// StationKind returns an EventKind for station i of the given type.
func StationKind(t EventType, i int) EventKind {
	return EventKind{Type: t, Index: i}
}

func (k EventKind) String() string {
	if k.Index < 0 {
		return string(k.Type)
	}
	return fmt.Sprintf("%s[%d]", k.Type, k.Index)
}

// Event is an immutable (kind, time) pair scheduled on an EventList.
// Seq is assigned by the EventList on insertion and breaks ties between
// events scheduled for the same time: earlier insertion runs first.
type Event struct {
	kind EventKind
	time float64
	seq  uint64
}

// NewEvent creates an event of the given kind at simulated time t.
func NewEvent(kind EventKind, t float64) Event {
	return Event{kind: kind, time: t}
}

// Kind returns the event kind.
func (e Event) Kind() EventKind { return e.kind }

// Time returns the scheduled simulated time.
func (e Event) Time() float64 { return e.time }

// Seq returns the insertion sequence number assigned by the EventList.
func (e Event) Seq() uint64 { return e.seq }

func (e Event) String() string {
	return fmt.Sprintf("%s@%.4f", e.kind, e.time)
}

// before reports whether e runs before o: by time, then insertion order.
func (e Event) before(o Event) bool {
	if e.time != o.time {
		return e.time < o.time
	}
	return e.seq < o.seq
}
