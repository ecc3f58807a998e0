package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/branchsim/branchsim/sim/dist"
)

func validDuration(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// DrawDuration draws a non-negative finite value from s. A bad draw is
// rejected and redrawn once; a second bad draw is fatal.
func DrawDuration(s dist.ContinuousSampler, what string) (float64, error) {
	v := s.Sample()
	if validDuration(v) {
		return v, nil
	}
	logrus.Warnf("rejected %s sample %v; resampling", what, v)
	v = s.Sample()
	if validDuration(v) {
		return v, nil
	}
	return 0, fmt.Errorf("%s sample %v: %w", what, v, ErrInvalidSample)
}

// DrawCount draws a non-negative count from s with the same retry rule as
// DrawDuration.
func DrawCount(s dist.DiscreteSampler, what string) (int, error) {
	v := s.Sample()
	if v >= 0 {
		return v, nil
	}
	logrus.Warnf("rejected %s sample %d; resampling", what, v)
	v = s.Sample()
	if v >= 0 {
		return v, nil
	}
	return 0, fmt.Errorf("%s sample %d: %w", what, v, ErrInvalidSample)
}
