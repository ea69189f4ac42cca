package mdp

import (
	"fmt"
	"math"

	"github.com/fleetlab/relo/dist"
)

// A Change holds the optional scenario modifications: one outward move per
// night is free when an employee shuttles it, and each location only has
// free parking for ParkingLimit vehicles.
type Change struct {
	FreeShuttle  bool
	ParkingLimit int
	ParkingCost  float64
}

// A GraphBuilder builds rental-rebalancing model graphs.
type GraphBuilder struct {
	moveLimit   int
	bound       int
	rentRates   [2]float64
	returnRates [2]float64
	rentReward  float64

	change    Change
	changeSet bool
}

// MakeGraphBuilder creates a builder with the classic scenario as its
// defaults: a fleet bound of 20 per location, up to 5 overnight moves,
// rental rates 3 and 4, return rates 3 and 2, and 10 per rental.
func MakeGraphBuilder() GraphBuilder {
	return GraphBuilder{
		moveLimit:   5,
		bound:       20,
		rentRates:   [2]float64{3, 4},
		returnRates: [2]float64{3, 2},
		rentReward:  10,
	}
}

// WithMoveLimit sets the maximum number of vehicles moved overnight.
func (b GraphBuilder) WithMoveLimit(limit int) GraphBuilder {
	b.moveLimit = limit
	return b
}

// WithBound sets the inventory bound per location.
func (b GraphBuilder) WithBound(bound int) GraphBuilder {
	b.bound = bound
	return b
}

// WithRentalRates sets the Poisson rental demand rate at each location.
func (b GraphBuilder) WithRentalRates(rate0, rate1 float64) GraphBuilder {
	b.rentRates = [2]float64{rate0, rate1}
	return b
}

// WithReturnRates sets the Poisson return rate at each location.
func (b GraphBuilder) WithReturnRates(rate0, rate1 float64) GraphBuilder {
	b.returnRates = [2]float64{rate0, rate1}
	return b
}

// WithRentalReward sets the reward collected per expected rental.
func (b GraphBuilder) WithRentalReward(reward float64) GraphBuilder {
	b.rentReward = reward
	return b
}

// WithChange enables the scenario modifications.
func (b GraphBuilder) WithChange(c Change) GraphBuilder {
	b.change = c
	b.changeSet = true
	return b
}

// Build validates the configuration and constructs the model graph. The
// construction runs in two finalized phases: the state and action catalogs
// first, then the transitions purely in terms of catalog indices.
func (b GraphBuilder) Build() (*Graph, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	rent0, _ := dist.NewPoisson(b.rentRates[0])
	rent1, _ := dist.NewPoisson(b.rentRates[1])
	return0, _ := dist.NewPoisson(b.returnRates[0])
	return1, _ := dist.NewPoisson(b.returnRates[1])

	g := &Graph{
		States:    NewTable2D[*State](0, b.bound, 0, b.bound),
		Actions:   NewTable1D[*Action](-b.moveLimit, b.moveLimit),
		Bound:     b.bound,
		MoveLimit: b.moveLimit,
		ReturnExp: [2]float64{
			ExpectedCapped(b.bound, return0),
			ExpectedCapped(b.bound, return1),
		},
	}

	b.buildStates(g, rent0, rent1)
	b.buildActions(g)
	b.buildTransitions(g)

	return g, nil
}

func (b GraphBuilder) validate() error {
	if b.moveLimit < 0 {
		return fmt.Errorf("move limit must be non-negative, got %d", b.moveLimit)
	}

	if b.bound < 0 {
		return fmt.Errorf("inventory bound must be non-negative, got %d", b.bound)
	}

	for i, r := range b.rentRates {
		if r <= 0 {
			return fmt.Errorf("rental rate %d must be positive, got %g", i, r)
		}
	}

	for i, r := range b.returnRates {
		if r <= 0 {
			return fmt.Errorf("return rate %d must be positive, got %g", i, r)
		}
	}

	if b.changeSet {
		if b.change.ParkingLimit < 0 {
			return fmt.Errorf("parking limit must be non-negative, got %d",
				b.change.ParkingLimit)
		}

		if b.change.ParkingCost < 0 {
			return fmt.Errorf("parking cost must be non-negative, got %g",
				b.change.ParkingCost)
		}
	}

	return nil
}

func (b GraphBuilder) buildStates(g *Graph, rent0, rent1 dist.Discrete) {
	for m := 0; m <= b.bound; m++ {
		for n := 0; n <= b.bound; n++ {
			expRent0 := ExpectedCapped(m, rent0)
			expRent1 := ExpectedCapped(n, rent1)

			reward := (expRent0 + expRent1) * b.rentReward
			reward -= b.parkingPenalty(m)
			reward -= b.parkingPenalty(n)

			desc := StateDesc{
				Name:  stateName(m, n),
				Count: [2]int{m, n},
				Rent:  [2]float64{expRent0, expRent1},
			}
			g.States.Set(m, n, newState(desc, reward))
		}
	}
}

func (b GraphBuilder) parkingPenalty(count int) float64 {
	if b.changeSet && count > b.change.ParkingLimit {
		return b.change.ParkingCost
	}

	return 0
}

func (b GraphBuilder) buildActions(g *Graph) {
	for k := -b.moveLimit; k <= b.moveLimit; k++ {
		credit := 0
		if b.changeSet && b.change.FreeShuttle && k > 0 {
			credit = 1
		}

		g.Actions.Set(k, &Action{
			Desc:   ActionDesc{Name: actionName(k), Move: k},
			Reward: -2 * float64(abs(k)-credit),
		})
	}
}

func (b GraphBuilder) buildTransitions(g *Graph) {
	g.States.ForEach(func(_, _ int, s *State) {
		b.addTransitionForMove(g, s, 0)
		for k := 1; k <= b.moveLimit; k++ {
			b.addTransitionForMove(g, s, k)
		}
		for k := 1; k <= b.moveLimit; k++ {
			b.addTransitionForMove(g, s, -k)
		}

		s.indexTransitions()
	})
}

// addTransitionForMove emits the single expected-value successor for one
// move: serve the expected rentals, shift k vehicles from location 0 to
// location 1, and receive the expected returns computed at ceiling Bound
// regardless of the current count (an intentional simplification). The
// result rounds to the nearest count pair, clamped to the inventory bound.
func (b GraphBuilder) addTransitionForMove(g *Graph, s *State, k int) {
	post := s.ExpectedPostRental()

	to := [2]int{
		clamp(int(math.Round(post[0]-float64(k)+g.ReturnExp[0])), 0, b.bound),
		clamp(int(math.Round(post[1]+float64(k)+g.ReturnExp[1])), 0, b.bound),
	}

	s.addTransition(Transition{
		Action: k,
		From:   s.Desc.Count,
		To:     to,
		Prob:   1.0,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
