// Package mdp defines the Markov decision process for the two-location
// rental-and-reallocation problem: the dense state and action catalogs,
// the expectation-collapsed transitions between count pairs, and the
// policy table the solver mutates.
package mdp

import (
	"fmt"
	"log"
	"sort"
)

// A StateDesc is the immutable identity of a state: a label, the inventory
// counts at the two locations, and the expected rentals at those counts.
type StateDesc struct {
	Name  string
	Count [2]int
	Rent  [2]float64
}

// A State is one node of the model graph. Its reward and transitions are
// fixed when the graph is built; only Value mutates afterward.
type State struct {
	Desc   StateDesc
	Reward float64
	Value  float64

	transitions []Transition
	byAction    map[int][]int
	actionOrder []int
}

func newState(desc StateDesc, reward float64) *State {
	return &State{Desc: desc, Reward: reward}
}

// Count returns the inventory counts at the two locations.
func (s *State) Count() [2]int {
	return s.Desc.Count
}

// ExpectedPostRental returns the expected per-location counts once the
// rental demand at the current counts has been served.
func (s *State) ExpectedPostRental() [2]float64 {
	return [2]float64{
		float64(s.Desc.Count[0]) - s.Desc.Rent[0],
		float64(s.Desc.Count[1]) - s.Desc.Rent[1],
	}
}

// Transitions returns the state's outgoing transitions in the order they
// were added.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// ActionValues returns the move values that have at least one transition
// out of this state, in ascending order.
func (s *State) ActionValues() []int {
	s.mustBeIndexed()
	return s.actionOrder
}

// TransitionsFor returns the indices into Transitions that belong to the
// given move value.
func (s *State) TransitionsFor(move int) []int {
	s.mustBeIndexed()

	indices, ok := s.byAction[move]
	if !ok {
		log.Panicf("state %s has no transitions for move %+d", s.Desc.Name, move)
	}

	return indices
}

func (s *State) addTransition(t Transition) {
	if s.byAction != nil {
		log.Panicf("state %s: transitions are frozen", s.Desc.Name)
	}

	s.transitions = append(s.transitions, t)
}

// indexTransitions groups the state's transition indices by move value. It
// must run once, after the transition list is complete; the index is
// read-only afterward.
func (s *State) indexTransitions() {
	if s.byAction != nil {
		log.Panicf("state %s: transition index already built", s.Desc.Name)
	}

	s.byAction = make(map[int][]int)
	for i, t := range s.transitions {
		s.byAction[t.Action] = append(s.byAction[t.Action], i)
	}

	s.actionOrder = make([]int, 0, len(s.byAction))
	for move := range s.byAction {
		s.actionOrder = append(s.actionOrder, move)
	}
	sort.Ints(s.actionOrder)
}

func (s *State) mustBeIndexed() {
	if s.byAction == nil {
		log.Panicf("state %s: transition index not built yet", s.Desc.Name)
	}
}

// An ActionDesc is the immutable identity of an action: a label and the
// signed net move from location 0 to location 1.
type ActionDesc struct {
	Name string
	Move int
}

// An Action carries a fixed reward: the move cost, minus the credit for
// one free outward unit when the free shuttle is enabled.
type Action struct {
	Desc   ActionDesc
	Reward float64
}

// A Transition links one count pair to its expected successor under one
// action. The stochastic dynamics are collapsed to their expectation, so
// Prob is always 1.
type Transition struct {
	Action int
	From   [2]int
	To     [2]int
	Prob   float64
}

// Backup returns the one-step lookahead value of the transition: origin
// reward plus action reward plus the discounted successor value.
func (t Transition) Backup(g *Graph, discount float64) float64 {
	return g.StateAt(t.From).Reward +
		g.ActionAt(t.Action).Reward +
		discount*g.StateAt(t.To).Value
}

// A Graph is the complete model: the dense state catalog over [0, bound]^2
// and the dense action catalog over [-moveLimit, moveLimit]. It is the
// single source of truth for rewards and reachability, and is read-only
// after Build except for the per-state values.
type Graph struct {
	States  *Table2D[*State]
	Actions *Table1D[*Action]

	Bound     int
	MoveLimit int

	// ReturnExp holds the expected returns at each location, computed at
	// ceiling Bound regardless of the current count.
	ReturnExp [2]float64
}

// StateAt returns the state with the given count pair.
func (g *Graph) StateAt(count [2]int) *State {
	return g.States.Get(count[0], count[1])
}

// ActionAt returns the action with the given move value.
func (g *Graph) ActionAt(move int) *Action {
	return g.Actions.Get(move)
}

func stateName(m, n int) string {
	return fmt.Sprintf("%d_%d", m, n)
}

func actionName(move int) string {
	return fmt.Sprintf("%+d", move)
}
