package bank

import (
	"fmt"

	"github.com/branchsim/branchsim/sim"
	"github.com/branchsim/branchsim/sim/trace"
)

// RoutingDecision names the station a customer was sent to.
type RoutingDecision struct {
	Index  int
	Target string
	Reason string
}

// ShortestQueue picks the station with the fewest customers, counting the
// one in service. Ties are broken by lowest index.
func ShortestQueue(stations []*sim.Station) RoutingDecision {
	if len(stations) == 0 {
		panic("ShortestQueue: no stations")
	}

	minLen := stations[0].QueueLength()
	target := 0
	for i := 1; i < len(stations); i++ {
		if l := stations[i].QueueLength(); l < minLen {
			minLen = l
			target = i
		}
	}

	return RoutingDecision{
		Index:  target,
		Target: stations[target].Name(),
		Reason: fmt.Sprintf("shortest-queue (len=%d)", minLen),
	}
}

// routingRecord captures the candidate lengths before c joins the target.
func routingRecord(c *sim.Customer, now float64, stations []*sim.Station, d RoutingDecision) trace.RoutingRecord {
	rec := trace.RoutingRecord{
		CustomerID:    c.ID,
		Clock:         now,
		Class:         c.Type.String(),
		ChosenStation: d.Target,
		QueueLengths:  make(map[string]int, len(stations)),
		Candidates:    make([]string, len(stations)),
	}
	for i, s := range stations {
		rec.Candidates[i] = s.Name()
		rec.QueueLengths[s.Name()] = s.QueueLength()
	}
	return rec
}
