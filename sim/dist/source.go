package dist

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/iti/rngstream"
)

// SourceKind selects the uniform generator behind every sampler.
type SourceKind string

const (
	// SourcePCG seeds one math/rand/v2 PCG stream per subsystem.
	SourcePCG SourceKind = "pcg"
	// SourceMRG32k3a uses L'Ecuyer MRG32k3a streams. Streams are handed out
	// in creation order, so the run seed does not affect them.
	SourceMRG32k3a SourceKind = "mrg32k3a"
)

// IsValidSourceKind reports whether kind names a known generator.
// The empty string selects SourcePCG.
func IsValidSourceKind(kind string) bool {
	switch SourceKind(kind) {
	case "", SourcePCG, SourceMRG32k3a:
		return true
	}
	return false
}

// NewSource returns a uniform source for the named stream.
func NewSource(kind SourceKind, seed int64, name string) (rand.Source, error) {
	switch kind {
	case "", SourcePCG:
		return rand.NewPCG(uint64(seed), nameHash(name)), nil
	case SourceMRG32k3a:
		return &streamSource{s: rngstream.New(name)}, nil
	default:
		return nil, fmt.Errorf("unknown random source %q", kind)
	}
}

// streamSource adapts an MRG32k3a stream to rand.Source by joining two
// 32-bit draws.
type streamSource struct {
	s *rngstream.RngStream
}

func (ss *streamSource) Uint64() uint64 {
	hi := uint64(ss.s.RandU01() * (1 << 32))
	lo := uint64(ss.s.RandU01() * (1 << 32))
	return hi<<32 | lo
}

func nameHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
