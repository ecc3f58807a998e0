// Package trace provides decision-trace recording for routing analysis.
// It has no dependencies on sim/ or sim/bank/ and holds plain data types.
package trace

// RoutingRecord captures a single routing decision made when a customer
// leaves the dispenser.
type RoutingRecord struct {
	CustomerID    int
	Clock         float64
	Class         string         // "transaction" or "account"
	ChosenStation string
	QueueLengths  map[string]int // queue length per candidate station before the enqueue
	Candidates    []string       // candidate stations in index order
}

// LengthsAfter returns the candidate queue lengths in index order once the
// customer has joined the chosen station.
func (r RoutingRecord) LengthsAfter() []int {
	out := make([]int, len(r.Candidates))
	for i, name := range r.Candidates {
		out[i] = r.QueueLengths[name]
		if name == r.ChosenStation {
			out[i]++
		}
	}
	return out
}
