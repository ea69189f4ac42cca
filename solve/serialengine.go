package solve

import (
	"math"

	"github.com/fleetlab/relo/mdp"
)

// A SerialEngine runs policy iteration with in-place value updates: within
// an evaluation sweep, later states read the values already written for
// earlier states in the same sweep (Gauss-Seidel). Sweeps visit states in
// ascending count-pair order, so runs are reproducible.
type SerialEngine struct {
	HookableBase

	graph  *mdp.Graph
	policy *mdp.Policy
	params Params
}

// NewSerialEngine creates a SerialEngine solving the given graph, mutating
// the given policy in place.
func NewSerialEngine(
	g *mdp.Graph,
	p *mdp.Policy,
	params Params,
) (*SerialEngine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	return &SerialEngine{graph: g, policy: p, params: params}, nil
}

// Graph returns the model the engine solves.
func (e *SerialEngine) Graph() *mdp.Graph {
	return e.graph
}

// Policy returns the policy the engine mutates.
func (e *SerialEngine) Policy() *mdp.Policy {
	return e.policy
}

// Run alternates evaluation and improvement until the policy is stable.
func (e *SerialEngine) Run() (Result, error) {
	res := Result{Converged: true}

	for {
		res.Iterations++

		if !e.evaluate(&res) {
			res.Converged = false
		}

		if e.improve(&res) {
			return res, nil
		}
	}
}

// evaluate sweeps until the largest value change of a sweep drops to
// Theta, or until MaxIter sweeps have run. It reports whether the phase
// converged.
func (e *SerialEngine) evaluate(res *Result) bool {
	converged := false

	for i := 0; i < e.params.MaxIter; i++ {
		delta := e.sweep()
		res.Sweeps++

		if e.NumHooks() > 0 {
			e.InvokeHook(HookCtx{
				Domain:    e,
				Pos:       HookPosSweepEnd,
				Iteration: res.Iterations,
				Sweep:     res.Sweeps,
				Delta:     delta,
			})
		}

		if delta <= e.params.Theta {
			converged = true
			break
		}
	}

	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain:    e,
			Pos:       HookPosEvalEnd,
			Iteration: res.Iterations,
			Sweep:     res.Sweeps,
		})
	}

	return converged
}

func (e *SerialEngine) sweep() float64 {
	var delta float64

	e.graph.States.ForEach(func(_, _ int, s *mdp.State) {
		old := s.Value
		s.Value = lookahead(e.graph, s, e.policy.ActionAt(s.Count()), e.params.Discount)
		delta = math.Max(delta, math.Abs(s.Value-old))
	})

	return delta
}

// improve replaces every state's action with the greedy one under the
// current values. It reports whether no action changed.
func (e *SerialEngine) improve(res *Result) bool {
	changed := 0

	e.graph.States.ForEach(func(_, _ int, s *mdp.State) {
		old := e.policy.ActionAt(s.Count())
		best := greedyAction(e.graph, s, e.params.Discount)

		if best != old {
			changed++
		}

		e.policy.SetAction(s.Count(), best)
	})

	if e.NumHooks() > 0 {
		e.InvokeHook(HookCtx{
			Domain:    e,
			Pos:       HookPosImproveEnd,
			Iteration: res.Iterations,
			Sweep:     res.Sweeps,
			Changed:   changed,
		})
	}

	return changed == 0
}
