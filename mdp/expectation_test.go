package mdp

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetlab/relo/dist"
)

var _ = Describe("ExpectedCapped", func() {
	var poisson dist.Discrete

	BeforeEach(func() {
		var err error
		poisson, err = dist.NewPoisson(3)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should be zero at cap zero", func() {
		Expect(ExpectedCapped(0, poisson)).To(BeZero())
	})

	It("should be non-decreasing in the cap", func() {
		prev := 0.0
		for v := 0; v <= 30; v++ {
			e := ExpectedCapped(v, poisson)
			Expect(e).To(BeNumerically(">=", prev))
			prev = e
		}
	})

	It("should never exceed the cap", func() {
		for v := 0; v <= 30; v++ {
			Expect(ExpectedCapped(v, poisson)).
				To(BeNumerically("<=", float64(v)))
		}
	})

	It("should approach the mean for a large cap", func() {
		Expect(ExpectedCapped(30, poisson)).To(BeNumerically("~", 3.0, 1e-6))
	})
})
