// Implements the WaitQueue, which holds the customers waiting at a station.
// The customer in service stays at the head until its service completes.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is a FIFO queue of customers.
type WaitQueue struct {
	queue []*Customer
}

// Enqueue adds a customer to the back of the queue.
func (wq *WaitQueue) Enqueue(c *Customer) {
	if c == nil {
		panic("Enqueue: customer must not be nil")
	}
	wq.queue = append(wq.queue, c)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of customers in the queue.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the customer at the front without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Customer {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// Dequeue removes and returns the customer at the front.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Dequeue() *Customer {
	if len(wq.queue) == 0 {
		return nil
	}
	c := wq.queue[0]
	wq.queue[0] = nil
	wq.queue = wq.queue[1:]
	return c
}

// Snapshot returns value copies of the queued customers in FIFO order.
// The result shares nothing with the queue.
func (wq *WaitQueue) Snapshot() []Customer {
	out := make([]Customer, len(wq.queue))
	for i, c := range wq.queue {
		out[i] = *c
	}
	return out
}
