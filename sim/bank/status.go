package bank

import (
	"fmt"
	"sync"

	"github.com/branchsim/branchsim/sim"
)

// DispenserName identifies the ticket dispenser in queue snapshots.
const DispenserName = "automat"

// TellerName returns the name of transaction station i (0-based index,
// 1-based name).
func TellerName(i int) string { return fmt.Sprintf("teller%d", i+1) }

// AccountName returns the name of account station i.
func AccountName(i int) string { return fmt.Sprintf("account%d", i+1) }

// QueuedCustomer is one entry of a queue snapshot.
type QueuedCustomer struct {
	ID   int              `yaml:"id" json:"id"`
	Type sim.CustomerType `yaml:"type" json:"type"`
}

// QueueStatus maps a station name to the customers at that station in
// queue order, the one in service first. Snapshots are copies and are
// never touched by the engine after publication.
type QueueStatus map[string][]QueuedCustomer

// Signs renders the snapshot as the integer codes the branch display
// uses: 1 for a transaction customer, 2 for an account customer.
func (qs QueueStatus) Signs() map[string][]int {
	out := make(map[string][]int, len(qs))
	for name, customers := range qs {
		signs := make([]int, len(customers))
		for i, c := range customers {
			signs[i] = int(c.Type)
		}
		out[name] = signs
	}
	return out
}

// Total returns the number of customers across all stations.
func (qs QueueStatus) Total() int {
	n := 0
	for _, customers := range qs {
		n += len(customers)
	}
	return n
}

func snapshotStation(s *sim.Station) []QueuedCustomer {
	queued := s.SnapshotQueue()
	out := make([]QueuedCustomer, len(queued))
	for i, c := range queued {
		out[i] = QueuedCustomer{ID: c.ID, Type: c.Type}
	}
	return out
}

// statusPublisher hands snapshots to a consumer goroutine in publication
// order. Publish never blocks; snapshots queue up while the consumer is
// busy and none are dropped.
type statusPublisher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []QueueStatus
	closed  bool

	done chan struct{}
}

func newStatusPublisher(consume func(QueueStatus)) *statusPublisher {
	p := &statusPublisher{done: make(chan struct{})}
	p.cond = sync.NewCond(&p.mu)
	go p.loop(consume)
	return p
}

func (p *statusPublisher) loop(consume func(QueueStatus)) {
	defer close(p.done)
	for {
		p.mu.Lock()
		for len(p.pending) == 0 && !p.closed {
			p.cond.Wait()
		}
		batch, closed := p.pending, p.closed
		p.pending = nil
		p.mu.Unlock()

		for _, qs := range batch {
			consume(qs)
		}
		if closed {
			return
		}
	}
}

// Publish must only be called from the run goroutine. Snapshots published
// after Close are discarded.
func (p *statusPublisher) Publish(qs QueueStatus) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = append(p.pending, qs)
	p.mu.Unlock()
	p.cond.Signal()
}

// Close stops accepting snapshots. Done is closed once the consumer has
// seen every snapshot published before Close.
func (p *statusPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

func (p *statusPublisher) Done() <-chan struct{} {
	return p.done
}
