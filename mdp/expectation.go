package mdp

import "github.com/fleetlab/relo/dist"

// ExpectedCapped returns E[min(X, v)] for X drawn from d: the part of the
// demand or return process beyond v cannot be served and collapses onto v.
// The result is non-decreasing in v and never exceeds v.
func ExpectedCapped(v int, d dist.Discrete) float64 {
	var e float64
	for n := 0; n <= v; n++ {
		e += d.PMF(n) * float64(n)
	}
	e += (1 - d.CDF(v)) * float64(v)

	return e
}
