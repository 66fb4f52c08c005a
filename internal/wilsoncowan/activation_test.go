package wilsoncowan_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wcsim/internal/wilsoncowan"
)

var _ = Describe("Activation", func() {
	DescribeTable("rectifies",
		func(x, want float64) {
			Expect(wilsoncowan.Activation(x)).To(Equal(want))
		},
		Entry("positive", 1.5, 1.5),
		Entry("tiny positive", 1e-300, 1e-300),
		Entry("zero", 0.0, 0.0),
		Entry("negative", -2.0, 0.0),
		Entry("+Inf", math.Inf(1), math.Inf(1)),
		Entry("-Inf", math.Inf(-1), 0.0),
	)

	It("propagates NaN", func() {
		Expect(math.IsNaN(wilsoncowan.Activation(math.NaN()))).To(BeTrue())
	})

	It("keeps NaN entries through Activate instead of zeroing them", func() {
		xs := []float64{-1, math.NaN(), 2}
		wilsoncowan.Activate(xs, xs)
		Expect(xs[0]).To(Equal(0.0))
		Expect(math.IsNaN(xs[1])).To(BeTrue())
		Expect(xs[2]).To(Equal(2.0))
	})

	It("applies elementwise, in place", func() {
		xs := []float64{-1, 0, 2, -0.5, 3}
		wilsoncowan.Activate(xs, xs)
		Expect(xs).To(Equal([]float64{0, 0, 2, 0, 3}))
	})

	It("panics on mismatched lengths", func() {
		Expect(func() { wilsoncowan.Activate(make([]float64, 2), make([]float64, 3)) }).To(Panic())
	})
})
