package mdp

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GraphBuilder", func() {
	var graph *Graph

	BeforeEach(func() {
		var err error
		graph, err = MakeGraphBuilder().Build()
		Expect(err).ToNot(HaveOccurred())
	})

	It("should create one state per count pair", func() {
		Expect(graph.States.Len()).To(Equal(21 * 21))
	})

	It("should create one action per move in [-L, L]", func() {
		Expect(graph.Actions.Len()).To(Equal(11))
	})

	It("should give the no-move action zero reward", func() {
		Expect(graph.ActionAt(0).Reward).To(BeZero())
	})

	It("should charge 2 per moved vehicle", func() {
		Expect(graph.ActionAt(2).Reward).To(Equal(-4.0))
		Expect(graph.ActionAt(-2).Reward).To(Equal(-4.0))
		Expect(graph.ActionAt(5).Reward).To(Equal(-10.0))
	})

	It("should emit exactly one transition per move per state", func() {
		graph.States.ForEach(func(_, _ int, s *State) {
			Expect(s.Transitions()).To(HaveLen(11))

			for k := -5; k <= 5; k++ {
				Expect(s.TransitionsFor(k)).To(HaveLen(1))
			}
		})
	})

	It("should collapse every transition to probability 1", func() {
		graph.States.ForEach(func(_, _ int, s *State) {
			for _, t := range s.Transitions() {
				Expect(t.Prob).To(Equal(1.0))
			}
		})
	})

	It("should clamp every destination to the inventory bound", func() {
		graph.States.ForEach(func(_, _ int, s *State) {
			for _, t := range s.Transitions() {
				Expect(t.To[0]).To(And(
					BeNumerically(">=", 0), BeNumerically("<=", 20)))
				Expect(t.To[1]).To(And(
					BeNumerically(">=", 0), BeNumerically("<=", 20)))
			}
		})
	})

	It("should list action values in ascending order", func() {
		s := graph.StateAt([2]int{3, 3})
		Expect(s.ActionValues()).To(Equal(
			[]int{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}))
	})

	It("should send the empty state to the rounded expected returns", func() {
		s := graph.StateAt([2]int{0, 0})
		t := s.Transitions()[s.TransitionsFor(0)[0]]

		want := [2]int{
			int(math.Round(graph.ReturnExp[0])),
			int(math.Round(graph.ReturnExp[1])),
		}
		Expect(t.To).To(Equal(want))
		Expect(want).To(Equal([2]int{3, 2}))
	})

	It("should cap expected rentals by the on-hand count", func() {
		graph.States.ForEach(func(m, n int, s *State) {
			Expect(s.Desc.Rent[0]).To(BeNumerically("<=", float64(m)))
			Expect(s.Desc.Rent[1]).To(BeNumerically("<=", float64(n)))
		})
	})

	Describe("with the scenario change", func() {
		var changed *Graph

		BeforeEach(func() {
			var err error
			changed, err = MakeGraphBuilder().
				WithChange(Change{
					FreeShuttle:  true,
					ParkingLimit: 10,
					ParkingCost:  4,
				}).
				Build()
			Expect(err).ToNot(HaveOccurred())
		})

		It("should credit one free outward move", func() {
			Expect(changed.ActionAt(1).Reward).To(BeZero())
			Expect(changed.ActionAt(2).Reward).To(Equal(-2.0))
			Expect(changed.ActionAt(-2).Reward).To(Equal(-4.0))
		})

		It("should charge parking per overflowing location", func() {
			penalty := func(count [2]int) float64 {
				return graph.StateAt(count).Reward - changed.StateAt(count).Reward
			}

			Expect(penalty([2]int{10, 10})).To(BeNumerically("~", 0, 1e-9))
			Expect(penalty([2]int{11, 0})).To(BeNumerically("~", 4, 1e-9))
			Expect(penalty([2]int{11, 11})).To(BeNumerically("~", 8, 1e-9))
		})
	})

	Describe("validation", func() {
		It("should reject a negative move limit", func() {
			_, err := MakeGraphBuilder().WithMoveLimit(-1).Build()
			Expect(err).To(MatchError(ContainSubstring("move limit")))
		})

		It("should reject a negative bound", func() {
			_, err := MakeGraphBuilder().WithBound(-1).Build()
			Expect(err).To(MatchError(ContainSubstring("inventory bound")))
		})

		It("should reject non-positive rates by field", func() {
			_, err := MakeGraphBuilder().WithRentalRates(0, 4).Build()
			Expect(err).To(MatchError(ContainSubstring("rental rate 0")))

			_, err = MakeGraphBuilder().WithReturnRates(3, -2).Build()
			Expect(err).To(MatchError(ContainSubstring("return rate 1")))
		})

		It("should reject a bad change configuration", func() {
			_, err := MakeGraphBuilder().
				WithChange(Change{ParkingLimit: -1}).
				Build()
			Expect(err).To(MatchError(ContainSubstring("parking limit")))

			_, err = MakeGraphBuilder().
				WithChange(Change{ParkingCost: -4}).
				Build()
			Expect(err).To(MatchError(ContainSubstring("parking cost")))
		})
	})
})
