package mdp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Policy", func() {
	var policy *Policy

	BeforeEach(func() {
		policy = NewPolicy(4)
	})

	It("should start with no move everywhere", func() {
		policy.ForEach(func(_ [2]int, move int) {
			Expect(move).To(BeZero())
		})
	})

	It("should store assignments", func() {
		policy.SetAction([2]int{2, 3}, -4)

		Expect(policy.ActionAt([2]int{2, 3})).To(Equal(-4))
		Expect(policy.ActionAt([2]int{3, 2})).To(BeZero())
	})

	It("should panic outside its bound", func() {
		Expect(func() { policy.ActionAt([2]int{5, 0}) }).To(Panic())
		Expect(func() { policy.SetAction([2]int{0, -1}, 1) }).To(Panic())
	})
})
