package bank

import (
	"math/rand/v2"

	"github.com/branchsim/branchsim/sim"
	"github.com/branchsim/branchsim/sim/dist"
)

// mixStep maps a minimum transaction share to the Poisson mean used for
// the class draw.
type mixStep struct {
	minPercent float64
	mean       float64
}

var mixSteps = []mixStep{
	{90, 0.01},
	{80, 0.1},
	{70, 0.3},
	{60, 0.5},
	{50, 0.7},
	{40, 0.9},
	{30, 1.1},
	{20, 1.3},
}

const mixFloorMean = 1.5

// ClientMixMean returns the Poisson mean for a transaction share given in
// percent. A zero draw selects a transaction customer, so a higher share
// maps to a lower mean.
func ClientMixMean(percent float64) float64 {
	for _, s := range mixSteps {
		if percent >= s.minPercent {
			return s.mean
		}
	}
	return mixFloorMean
}

// newClassSampler builds the class draw. The endpoints are pinned: 100
// yields only transaction customers and 0 only account customers.
func newClassSampler(percent float64, src rand.Source) (dist.DiscreteSampler, error) {
	switch {
	case percent >= 100:
		return dist.ConstantCount(0), nil
	case percent <= 0:
		// Unpinned, 0 would fall in the 1.5 bucket and still draw ~22% transaction customers.
		return dist.ConstantCount(1), nil
	}
	return dist.NewPoisson(ClientMixMean(percent), src)
}

// classForDraw turns a class sample into a customer type.
func classForDraw(n int) sim.CustomerType {
	if n == 0 {
		return sim.TransactionCustomer
	}
	return sim.AccountCustomer
}
