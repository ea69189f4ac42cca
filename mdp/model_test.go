package mdp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	var state *State

	BeforeEach(func() {
		state = newState(StateDesc{
			Name:  stateName(2, 1),
			Count: [2]int{2, 1},
			Rent:  [2]float64{1.5, 0.5},
		}, 20)
	})

	It("should expose the expected post-rental counts", func() {
		Expect(state.ExpectedPostRental()).To(Equal([2]float64{0.5, 0.5}))
	})

	It("should refuse index queries before the index is built", func() {
		state.addTransition(Transition{Action: 0, Prob: 1})

		Expect(func() { state.TransitionsFor(0) }).To(Panic())
		Expect(func() { state.ActionValues() }).To(Panic())
	})

	It("should freeze transitions once indexed", func() {
		state.addTransition(Transition{Action: 0, Prob: 1})
		state.addTransition(Transition{Action: 1, Prob: 1})
		state.indexTransitions()

		Expect(state.ActionValues()).To(Equal([]int{0, 1}))
		Expect(func() {
			state.addTransition(Transition{Action: -1, Prob: 1})
		}).To(Panic())
		Expect(func() { state.indexTransitions() }).To(Panic())
	})

	It("should panic for a move it has no transitions for", func() {
		state.addTransition(Transition{Action: 0, Prob: 1})
		state.indexTransitions()

		Expect(func() { state.TransitionsFor(3) }).To(Panic())
	})
})
