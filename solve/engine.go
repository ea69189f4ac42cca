// Package solve computes an optimal policy for the rental-rebalancing
// model by policy iteration: iterative policy evaluation to a value
// function, then greedy one-step-lookahead improvement, repeated until an
// improvement pass changes no action.
package solve

import (
	"fmt"
	"math"
	"sort"

	"github.com/fleetlab/relo/mdp"
)

// Params controls the convergence behavior of an engine.
type Params struct {
	// Discount is the per-step multiplier applied to future reward. It
	// must lie strictly between 0 and 1.
	Discount float64

	// Theta is the evaluation convergence threshold.
	Theta float64

	// MaxIter caps the number of evaluation sweeps per phase. Hitting the
	// cap is not an error; the values reached so far are accepted.
	MaxIter int
}

func (p Params) validate() error {
	if p.Discount <= 0 || p.Discount >= 1 {
		return fmt.Errorf("discount must be in (0, 1), got %g", p.Discount)
	}

	if p.Theta <= 0 {
		return fmt.Errorf("theta must be positive, got %g", p.Theta)
	}

	if p.MaxIter < 1 {
		return fmt.Errorf("max iteration must be at least 1, got %d", p.MaxIter)
	}

	return nil
}

// A Result summarizes a solver run.
type Result struct {
	// Iterations is the number of outer evaluate-improve rounds.
	Iterations int

	// Sweeps is the total number of evaluation sweeps across all rounds.
	Sweeps int

	// Converged is false when at least one evaluation phase was cut off
	// at MaxIter sweeps before its delta reached Theta. The run still
	// terminates with a stable policy; the value function is an accepted
	// approximation.
	Converged bool
}

// An Engine computes an optimal policy for a model graph. The graph's
// rewards and transitions are read-only to the engine; only the per-state
// values and the policy mutate during a run.
type Engine interface {
	Hookable

	// Run alternates policy evaluation and policy improvement until an
	// improvement pass changes no action.
	Run() (Result, error)

	// Graph returns the model the engine solves.
	Graph() *mdp.Graph

	// Policy returns the policy the engine mutates.
	Policy() *mdp.Policy
}

// lookahead sums prob * (state reward + action reward + discounted
// successor value) over the transitions the state has for one move.
func lookahead(g *mdp.Graph, s *mdp.State, move int, discount float64) float64 {
	var v float64
	for _, i := range s.TransitionsFor(move) {
		t := s.Transitions()[i]
		v += t.Prob * t.Backup(g, discount)
	}

	return v
}

// greedyAction returns the move maximizing the one-step lookahead at s.
// Candidates are tried with the smallest magnitude first and, within equal
// magnitude, the smaller signed value, and only a strictly larger
// lookahead displaces the incumbent. Ties therefore always resolve to the
// smallest move.
func greedyAction(g *mdp.Graph, s *mdp.State, discount float64) int {
	candidates := append([]int(nil), s.ActionValues()...)
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i], candidates[j]
		if abs(ai) != abs(aj) {
			return abs(ai) < abs(aj)
		}
		return ai < aj
	})

	best := candidates[0]
	bestValue := math.Inf(-1)
	for _, move := range candidates {
		if v := lookahead(g, s, move, discount); v > bestValue {
			best = move
			bestValue = v
		}
	}

	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
