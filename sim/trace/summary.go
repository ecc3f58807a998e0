package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	UniqueTargets      int
	TargetDistribution map[string]int // station → count of customers routed
	ClassDistribution  map[string]int // class → count of customers routed
	MaxImbalance       int            // largest max-min queue length gap within a class right after a decision
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[string]int),
		ClassDistribution:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Routings)
	for _, r := range st.Routings {
		summary.TargetDistribution[r.ChosenStation]++
		summary.ClassDistribution[r.Class]++
		if gap := spread(r.LengthsAfter()); gap > summary.MaxImbalance {
			summary.MaxImbalance = gap
		}
	}
	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}

func spread(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	lo, hi := lengths[0], lengths[0]
	for _, l := range lengths[1:] {
		lo = min(lo, l)
		hi = max(hi, l)
	}
	return hi - lo
}
