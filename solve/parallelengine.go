package solve

import (
	"math"
	"runtime"
	"sync"

	"github.com/fleetlab/relo/mdp"
)

// A ParallelEngine runs the same policy-iteration loop with synchronous
// (Jacobi) value updates: every backup in a sweep reads the values frozen
// at the start of the sweep and writes into a separate buffer that is
// swapped in when the sweep ends. States are partitioned across
// GOMAXPROCS workers and the sweep delta is reduced by max.
//
// This is a behavioral variant of SerialEngine, not a transparent
// substitute: both terminate with a stable policy under the same
// conditions, but the convergence path and the values reached can differ
// because the serial engine lets later states in a sweep see earlier
// updates.
type ParallelEngine struct {
	HookableBase

	graph  *mdp.Graph
	policy *mdp.Policy
	params Params

	numWorkers int
	states     []*mdp.State
}

// NewParallelEngine creates a ParallelEngine solving the given graph,
// mutating the given policy in place.
func NewParallelEngine(
	g *mdp.Graph,
	p *mdp.Policy,
	params Params,
) (*ParallelEngine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	e := &ParallelEngine{
		graph:      g,
		policy:     p,
		params:     params,
		numWorkers: runtime.GOMAXPROCS(0),
	}

	e.states = make([]*mdp.State, 0, g.States.Len())
	g.States.ForEach(func(_, _ int, s *mdp.State) {
		e.states = append(e.states, s)
	})

	return e, nil
}

// Graph returns the model the engine solves.
func (e *ParallelEngine) Graph() *mdp.Graph {
	return e.graph
}

// Policy returns the policy the engine mutates.
func (e *ParallelEngine) Policy() *mdp.Policy {
	return e.policy
}

// Run alternates evaluation and improvement until the policy is stable.
func (e *ParallelEngine) Run() (Result, error) {
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

func (e *ParallelEngine) evaluate(res *Result) bool {
	converged := false
	next := make([]float64, len(e.states))

	for i := 0; i < e.params.MaxIter; i++ {
		delta := e.sweep(next)
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

// sweep computes every state's backup against the frozen current values,
// then swaps the result buffer in. No value is visible to the workers
// before the swap.
func (e *ParallelEngine) sweep(next []float64) float64 {
	deltas := e.forEachChunk(func(lo, hi int) float64 {
		var delta float64
		for i := lo; i < hi; i++ {
			s := e.states[i]
			next[i] = lookahead(e.graph, s, e.policy.ActionAt(s.Count()), e.params.Discount)
			delta = math.Max(delta, math.Abs(next[i]-s.Value))
		}
		return delta
	})

	for i, s := range e.states {
		s.Value = next[i]
	}

	var delta float64
	for _, d := range deltas {
		delta = math.Max(delta, d)
	}

	return delta
}

// improve greedily reassigns every state's action. Values are frozen
// during improvement, and each worker writes disjoint policy entries, so
// the passes are independent.
func (e *ParallelEngine) improve(res *Result) bool {
	counts := e.forEachChunk(func(lo, hi int) float64 {
		changed := 0
		for i := lo; i < hi; i++ {
			s := e.states[i]
			old := e.policy.ActionAt(s.Count())
			best := greedyAction(e.graph, s, e.params.Discount)

			if best != old {
				changed++
			}

			e.policy.SetAction(s.Count(), best)
		}
		return float64(changed)
	})

	changed := 0
	for _, c := range counts {
		changed += int(c)
	}

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

// forEachChunk splits the state list into one contiguous chunk per worker
// and runs them concurrently, collecting one reduction value per chunk.
func (e *ParallelEngine) forEachChunk(work func(lo, hi int) float64) []float64 {
	numChunks := e.numWorkers
	if numChunks > len(e.states) {
		numChunks = len(e.states)
	}
	if numChunks == 0 {
		return nil
	}

	results := make([]float64, numChunks)
	chunkSize := (len(e.states) + numChunks - 1) / numChunks

	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		lo := c * chunkSize
		hi := lo + chunkSize
		if hi > len(e.states) {
			hi = len(e.states)
		}

		wg.Add(1)
		go func(c, lo, hi int) {
			defer wg.Done()
			results[c] = work(lo, hi)
		}(c, lo, hi)
	}
	wg.Wait()

	return results
}
