package dist

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ContinuousSampler draws real-valued samples, e.g. durations.
// Implementations are expected to return non-negative finite values; the
// engine rejects anything else.
type ContinuousSampler interface {
	Sample() float64
}

// DiscreteSampler draws non-negative integer samples.
type DiscreteSampler interface {
	Sample() int
}

// maxTruncationTries bounds the rejection loop of truncated samplers.
const maxTruncationTries = 64

// Negexp draws negative-exponential samples with a given mean.
type Negexp struct {
	mean float64
	d    distuv.Exponential
}

// NewNegexp creates a negative-exponential sampler. mean must be > 0.
func NewNegexp(mean float64, src rand.Source) (*Negexp, error) {
	if !(mean > 0) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("negexp mean must be positive and finite, got %v", mean)
	}
	return &Negexp{mean: mean, d: distuv.Exponential{Rate: 1 / mean, Src: src}}, nil
}

func (s *Negexp) Sample() float64 {
	return s.d.Rand()
}

// Mean returns the configured mean.
func (s *Negexp) Mean() float64 { return s.mean }

// Normal draws normal samples truncated at zero: negative draws are
// rejected and redrawn, and after maxTruncationTries rejections the sample
// is clamped to zero.
type Normal struct {
	d distuv.Normal
}

// NewNormal creates a truncated normal sampler from a mean and a variance.
func NewNormal(mean, variance float64, src rand.Source) (*Normal, error) {
	if variance < 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
		return nil, fmt.Errorf("normal variance must be non-negative and finite, got %v", variance)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("normal mean must be finite, got %v", mean)
	}
	return &Normal{d: distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance), Src: src}}, nil
}

func (s *Normal) Sample() float64 {
	for i := 0; i < maxTruncationTries; i++ {
		if v := s.d.Rand(); v >= 0 {
			return v
		}
	}
	return 0
}

// Poisson draws Poisson-distributed counts.
type Poisson struct {
	d distuv.Poisson
}

// NewPoisson creates a Poisson sampler. lambda must be > 0.
func NewPoisson(lambda float64, src rand.Source) (*Poisson, error) {
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return nil, fmt.Errorf("poisson mean must be positive and finite, got %v", lambda)
	}
	return &Poisson{d: distuv.Poisson{Lambda: lambda, Src: src}}, nil
}

func (s *Poisson) Sample() int {
	return int(s.d.Rand())
}

// Lambda returns the configured mean.
func (s *Poisson) Lambda() float64 { return s.d.Lambda }

// Constant always returns the same duration.
type Constant float64

func (c Constant) Sample() float64 { return float64(c) }

// ConstantCount always returns the same count.
type ConstantCount int

func (c ConstantCount) Sample() int { return int(c) }

// Sequence replays a fixed list of durations and then repeats the last one.
// Scripted scenarios use it to pin service times.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a Sequence sampler. values must not be empty.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("NewSequence: values must not be empty")
	}
	return &Sequence{values: values}
}

func (s *Sequence) Sample() float64 {
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	return v
}
