package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/branchsim/branchsim/sim/dist"
)

// === SimulationKey ===

// SimulationKey identifies a reproducible run. Two runs with the same key,
// the same configuration and the PCG source produce identical event traces.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem names ===

const (
	// SubsystemArrivals drives interarrival times.
	SubsystemArrivals = "arrivals"
	// SubsystemClientMix drives the customer class draw.
	SubsystemClientMix = "client_mix"
	// SubsystemDispenser drives the ticket dispenser's service times.
	SubsystemDispenser = "dispenser"
)

// SubsystemStation returns the subsystem name for station i of a class.
func SubsystemStation(class string, i int) string {
	return fmt.Sprintf("%s_%d", class, i)
}

// === PartitionedRNG ===

// PartitionedRNG hands out one isolated uniform source per subsystem, so
// adding a station never perturbs the draws of the others.
//
// Thread-safety: NOT thread-safe. Use from the run goroutine only.
type PartitionedRNG struct {
	key        SimulationKey
	kind       dist.SourceKind
	subsystems map[string]rand.Source
}

// NewPartitionedRNG creates a PartitionedRNG from a key and a source kind.
func NewPartitionedRNG(key SimulationKey, kind dist.SourceKind) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		kind:       kind,
		subsystems: make(map[string]rand.Source),
	}
}

// ForSubsystem returns the source for the named subsystem, creating it on
// first use. Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) (rand.Source, error) {
	if src, ok := p.subsystems[name]; ok {
		return src, nil
	}
	src, err := dist.NewSource(p.kind, int64(p.key), name)
	if err != nil {
		return nil, err
	}
	p.subsystems[name] = src
	return src, nil
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}
