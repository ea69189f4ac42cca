// Package dist supplies the discrete distributions that drive the rental
// demand and return processes.
package dist

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// A Discrete distribution exposes point and cumulative mass over the
// non-negative integers. CDF(k) equals the sum of PMF(i) for i <= k and
// saturates toward 1.
type Discrete interface {
	// PMF returns the probability mass at k.
	PMF(k int) float64

	// CDF returns the cumulative mass through k.
	CDF(k int) float64
}

// NewPoisson creates a Poisson distribution with the given mean rate.
func NewPoisson(rate float64) (Discrete, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("poisson rate must be positive, got %g", rate)
	}

	return poisson{src: distuv.Poisson{Lambda: rate}}, nil
}

type poisson struct {
	src distuv.Poisson
}

func (p poisson) PMF(k int) float64 {
	if k < 0 {
		return 0
	}

	return p.src.Prob(float64(k))
}

func (p poisson) CDF(k int) float64 {
	if k < 0 {
		return 0
	}

	return p.src.CDF(float64(k))
}
