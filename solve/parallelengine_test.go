package solve

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetlab/relo/mdp"
)

var _ = Describe("ParallelEngine", func() {
	var (
		graph  *mdp.Graph
		policy *mdp.Policy
		engine *ParallelEngine
	)

	BeforeEach(func() {
		graph = scenarioGraph()
		policy = mdp.NewPolicy(20)

		var err error
		engine, err = NewParallelEngine(graph, policy, scenarioParams())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should validate parameters like the serial engine", func() {
		_, err := NewParallelEngine(graph, policy,
			Params{Discount: 0.9, Theta: -1, MaxIter: 16})
		Expect(err).To(MatchError(ContainSubstring("theta")))
	})

	It("should reach a stable policy on the classic scenario", func() {
		res, err := engine.Run()

		Expect(err).ToNot(HaveOccurred())
		Expect(res.Iterations).To(BeNumerically(">=", 1))
		Expect(engine.improve(&Result{})).To(BeTrue())
	})

	It("should converge its evaluation under a fixed policy", func() {
		e, err := NewParallelEngine(graph, policy,
			Params{Discount: 0.9, Theta: 0.1, MaxIter: 1000})
		Expect(err).ToNot(HaveOccurred())

		recorder := &hookRecorder{}
		e.AcceptHook(recorder)

		Expect(e.evaluate(&Result{})).To(BeTrue())

		sweeps := recorder.at(HookPosSweepEnd)
		Expect(sweeps[len(sweeps)-1].Delta).To(BeNumerically("<=", 0.1))
	})

	It("should produce moves the model admits", func() {
		_, err := engine.Run()
		Expect(err).ToNot(HaveOccurred())

		policy.ForEach(func(_ [2]int, move int) {
			Expect(move).To(And(
				BeNumerically(">=", -5), BeNumerically("<=", 5)))
		})
	})

	It("should report hooks consistently", func() {
		recorder := &hookRecorder{}
		engine.AcceptHook(recorder)

		res, err := engine.Run()
		Expect(err).ToNot(HaveOccurred())

		Expect(recorder.at(HookPosSweepEnd)).To(HaveLen(res.Sweeps))
		Expect(recorder.at(HookPosImproveEnd)).To(HaveLen(res.Iterations))
	})
})
