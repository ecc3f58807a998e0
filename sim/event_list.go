package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// eventHeap implements heap.Interface ordered by time, then insertion order.
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// EventList is the time-ordered set of pending events of one run.
// Ordering: time ascending, then insertion order for equal times, so
// simultaneous events are dispatched first-scheduled-first.
type EventList struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventList creates an empty EventList.
func NewEventList() *EventList {
	l := &EventList{events: make(eventHeap, 0)}
	heap.Init(&l.events)
	return l
}

// Add inserts an event.
func (l *EventList) Add(ev Event) {
	l.nextSeq++
	ev.seq = l.nextSeq
	logrus.Tracef("schedule %s", ev)
	heap.Push(&l.events, ev)
}

// Len returns the number of pending events.
func (l *EventList) Len() int {
	return len(l.events)
}

// PeekTime returns the time of the earliest pending event.
func (l *EventList) PeekTime() (float64, error) {
	if len(l.events) == 0 {
		return 0, ErrEmptyEventList
	}
	return l.events[0].time, nil
}

// RemoveNext removes and returns the earliest pending event.
func (l *EventList) RemoveNext() (Event, error) {
	if len(l.events) == 0 {
		return Event{}, ErrEmptyEventList
	}
	return heap.Pop(&l.events).(Event), nil
}

// RemoveKind drops every pending event of the given kind and returns how
// many were removed.
func (l *EventList) RemoveKind(kind EventKind) int {
	kept := l.events[:0]
	for _, ev := range l.events {
		if ev.kind != kind {
			kept = append(kept, ev)
		}
	}
	removed := len(l.events) - len(kept)
	l.events = kept
	heap.Init(&l.events)
	return removed
}

// Count returns the number of pending events of the given kind.
func (l *EventList) Count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.kind == kind {
			n++
		}
	}
	return n
}

// Reset discards every pending event.
func (l *EventList) Reset() {
	l.events = l.events[:0]
	l.nextSeq = 0
}
