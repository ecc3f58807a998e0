package sim

import (
	"math"
	"testing"

	"github.com/branchsim/branchsim/sim/dist"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func draw(t *testing.T, p *PartitionedRNG, name string, n int) []uint64 {
	t.Helper()
	src, err := p.ForSubsystem(name)
	if err != nil {
		t.Fatalf("ForSubsystem(%q): %v", name, err)
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = src.Uint64()
	}
	return out
}

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces the same sequence
	a := draw(t, NewPartitionedRNG(NewSimulationKey(42), dist.SourcePCG), SubsystemArrivals, 3)
	b := draw(t, NewPartitionedRNG(NewSimulationKey(42), dist.SourcePCG), SubsystemArrivals, 3)

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("draw %d: %d != %d", i, a[i], b[i])
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Different subsystems under the same key produce different streams
	p := NewPartitionedRNG(NewSimulationKey(42), dist.SourcePCG)
	arrivals := draw(t, p, SubsystemArrivals, 1)
	dispenser := draw(t, p, SubsystemDispenser, 1)

	if arrivals[0] == dispenser[0] {
		t.Errorf("subsystems %q and %q produced the same first value", SubsystemArrivals, SubsystemDispenser)
	}
}

func TestPartitionedRNG_AddingStationDoesNotPerturbOthers(t *testing.T) {
	// GIVEN two RNGs with the same key
	p1 := NewPartitionedRNG(NewSimulationKey(7), dist.SourcePCG)
	p2 := NewPartitionedRNG(NewSimulationKey(7), dist.SourcePCG)

	// WHEN the second one also hands out streams for an extra station first
	draw(t, p2, SubsystemStation("teller", 5), 10)

	// THEN the arrival stream is unchanged
	a := draw(t, p1, SubsystemArrivals, 5)
	b := draw(t, p2, SubsystemArrivals, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("arrival draw %d differs after adding a station", i)
		}
	}
}

func TestPartitionedRNG_Caching(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1), dist.SourceMRG32k3a)
	s1, err := p.ForSubsystem(SubsystemClientMix)
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := p.ForSubsystem(SubsystemClientMix)
	if s1 != s2 {
		t.Error("ForSubsystem returned a new source for a known subsystem")
	}
}

func TestPartitionedRNG_UnknownKind(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1), dist.SourceKind("xorshift"))
	if _, err := p.ForSubsystem(SubsystemArrivals); err == nil {
		t.Error("expected error for unknown source kind")
	}
}

func TestSubsystemStation_Name(t *testing.T) {
	if got := SubsystemStation("account", 2); got != "account_2" {
		t.Errorf("SubsystemStation = %q, want account_2", got)
	}
}
