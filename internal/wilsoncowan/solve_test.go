package wilsoncowan_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/wcsim/internal/dynamo"
	"github.com/san-kum/wcsim/internal/metrics"
	"github.com/san-kum/wcsim/internal/wilsoncowan"
)

// referenceTwoPopulation is the scalar update written out term by term.
func referenceTwoPopulation(p wilsoncowan.TwoPopulationParams) (rE, rI []float64) {
	m := int(math.Ceil(p.TEnd / p.Dt))
	rE = make([]float64, m)
	rI = make([]float64, m)
	for i := 0; i < m-1; i++ {
		drE := (p.Dt / p.TauE) * (-rE[i] + wilsoncowan.Activation(p.WEE*rE[i]+p.WEI*rI[i]+p.IE))
		drI := (p.Dt / p.TauI) * (-rI[i] + wilsoncowan.Activation(p.WIE*rE[i]+p.WII*rI[i]+p.II))
		rE[i+1] = rE[i] + drE
		rI[i+1] = rI[i] + drI
	}
	return rE, rI
}

func symmetricScenario() wilsoncowan.TwoPopulationParams {
	return wilsoncowan.TwoPopulationParams{
		IE: 1, II: 1,
		WEE: 0.5, WEI: -0.5, WIE: 0.5, WII: -0.5,
		TauE: 10, TauI: 10,
		Dt: 0.1, TEnd: 200,
	}
}

func excitatoryOnly(wEE float64) wilsoncowan.TwoPopulationParams {
	return wilsoncowan.TwoPopulationParams{
		IE: 1, WEE: wEE,
		TauE: 10, TauI: 10,
		Dt: 0.1, TEnd: 200,
	}
}

func within(want, rel float64) OmegaMatcher {
	return BeNumerically("~", want, rel*(1+math.Abs(want)))
}

var _ = Describe("Solve", func() {
	Describe("time grid", func() {
		DescribeTable("has ceil(T_end/dt) points at k*dt",
			func(dt, tEnd float64) {
				p := symmetricScenario()
				p.Dt, p.TEnd = dt, tEnd

				rE, rI, T, err := wilsoncowan.SolveTwoPopulation(p)
				Expect(err).NotTo(HaveOccurred())

				m := int(math.Ceil(tEnd / dt))
				Expect(T).To(HaveLen(m))
				Expect(rE).To(HaveLen(m))
				Expect(rI).To(HaveLen(m))
				Expect(T[0]).To(BeZero())
				for k := range T {
					Expect(T[k]).To(Equal(float64(k) * dt))
				}
			},
			Entry("notebook defaults", 0.1, 200.0),
			Entry("non-dividing step", 0.3, 1.0),
			Entry("exact division", 0.25, 1.0),
			Entry("coarse step", 2.0, 7.0),
		)

		It("returns a single zero point when dt >= T_end", func() {
			p := symmetricScenario()
			for _, dt := range []float64{p.TEnd, 2 * p.TEnd} {
				p.Dt = dt
				rE, rI, T, err := wilsoncowan.SolveTwoPopulation(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(T).To(Equal([]float64{0}))
				Expect(rE).To(Equal([]float64{0}))
				Expect(rI).To(Equal([]float64{0}))
			}
		})
	})

	Describe("scalar and vectorized equivalence", func() {
		DescribeTable("agree for equivalent parameters",
			func(p wilsoncowan.TwoPopulationParams) {
				rE, rI, T, err := wilsoncowan.SolveTwoPopulation(p)
				Expect(err).NotTo(HaveOccurred())

				w := mat.NewDense(2, 2, []float64{p.WEE, p.WEI, p.WIE, p.WII})
				tr, err := wilsoncowan.Solve(wilsoncowan.Params{
					Drive:   []float64{p.IE, p.II},
					Weights: w,
					Tau:     []float64{p.TauE, p.TauI},
					Dt:      p.Dt,
					TEnd:    p.TEnd,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(tr.Populations()).To(Equal(2))
				Expect(tr.T).To(Equal(T))
				Expect(tr.Population(0)).To(Equal(rE))
				Expect(tr.Population(1)).To(Equal(rI))

				refE, refI := referenceTwoPopulation(p)
				Expect(rE).To(HaveLen(len(refE)))
				for k := range refE {
					Expect(rE[k]).To(within(refE[k], 1e-9))
					Expect(rI[k]).To(within(refI[k], 1e-9))
				}
			},
			Entry("symmetric E/I", symmetricScenario()),
			Entry("asymmetric coupling", wilsoncowan.TwoPopulationParams{
				IE: 2, II: 0.5, WEE: 0.8, WEI: -1.0, WIE: 1.2, WII: -0.3,
				TauE: 5, TauI: 12, Dt: 0.05, TEnd: 100,
			}),
			Entry("negative inhibitory drive", wilsoncowan.TwoPopulationParams{
				IE: 0.3, II: -0.2, WEI: -0.7, WIE: 0.9,
				TauE: 3, TauI: 7, Dt: 0.1, TEnd: 50,
			}),
			Entry("strong recurrent excitation", wilsoncowan.TwoPopulationParams{
				IE: 1.5, II: 1.0, WEE: 1.1, WEI: -2.0, WIE: 1.5, WII: -1.0,
				TauE: 10, TauI: 20, Dt: 0.2, TEnd: 300,
			}),
			Entry("uncoupled, no drive", wilsoncowan.TwoPopulationParams{
				TauE: 1, TauI: 1, Dt: 0.01, TEnd: 1,
			}),
			Entry("large step", wilsoncowan.TwoPopulationParams{
				IE: 5, II: 3, WEE: 0.2, WEI: -0.4, WIE: 0.6, WII: -0.1,
				TauE: 2, TauI: 4, Dt: 0.5, TEnd: 20,
			}),
		)
	})

	It("relaxes monotonically toward a positive drive with zero weights", func() {
		const drive = 2.5
		p := wilsoncowan.TwoPopulationParams{IE: drive, II: drive, TauE: 10, TauI: 10, Dt: 0.1, TEnd: 200}

		rE, rI, _, err := wilsoncowan.SolveTwoPopulation(p)
		Expect(err).NotTo(HaveOccurred())

		for _, r := range [][]float64{rE, rI} {
			for k := 1; k < len(r); k++ {
				Expect(r[k]).To(BeNumerically(">=", r[k-1]))
				Expect(r[k]).To(BeNumerically("<=", drive))
			}
			Expect(r[len(r)-1]).To(BeNumerically("~", drive, 1e-6))
		}
	})

	It("stays at zero with no drive and no weights", func() {
		tr, err := wilsoncowan.Solve(wilsoncowan.Params{
			Drive:   []float64{0, 0, 0},
			Weights: mat.NewDense(3, 3, nil),
			Tau:     []float64{1, 5, 10},
			Dt:      0.1,
			TEnd:    50,
		})
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < tr.Populations(); i++ {
			for _, v := range tr.Population(i) {
				Expect(v).To(BeZero())
			}
		}
	})

	Describe("single excitatory population", func() {
		DescribeTable("stays bounded below unit self-excitation",
			func(wEE float64) {
				rE, _, _, err := wilsoncowan.SolveTwoPopulation(excitatoryOnly(wEE))
				Expect(err).NotTo(HaveOccurred())

				bound := 1 / (1 - wEE)
				for k := 1; k < len(rE); k++ {
					Expect(rE[k]).To(BeNumerically(">=", rE[k-1]))
					Expect(rE[k]).To(BeNumerically("<=", bound+1e-9))
				}
			},
			Entry("weak", 0.2),
			Entry("moderate", 0.5),
			Entry("near critical", 0.9),
		)

		DescribeTable("diverges above unit self-excitation",
			func(wEE float64) {
				rE, rI, _, err := wilsoncowan.SolveTwoPopulation(excitatoryOnly(wEE))
				Expect(err).NotTo(HaveOccurred())

				for k := 2; k < len(rE); k++ {
					Expect(rE[k]).To(BeNumerically(">", rE[k-1]))
					Expect(rE[k] - rE[k-1]).To(BeNumerically(">", rE[k-1]-rE[k-2]))
				}
				Expect(rE[len(rE)-1]).To(BeNumerically(">", 1/(wEE-1)))
				Expect(rI).To(HaveEach(BeZero()))
			},
			Entry("just supercritical", 1.1),
			Entry("supercritical", 1.5),
			Entry("strongly supercritical", 2.0),
		)
	})

	It("lets runaway activity overflow without error", func() {
		p := wilsoncowan.TwoPopulationParams{IE: 1, WEE: 50, TauE: 1, TauI: 1, Dt: 1, TEnd: 2000}

		rE, _, T, err := wilsoncowan.SolveTwoPopulation(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(T).To(HaveLen(2000))
		Expect(dynamo.State{rE[len(rE)-1]}.IsValid()).To(BeFalse())
	})

	It("converges the symmetric E/I pair to a shared positive steady state", func() {
		p := symmetricScenario()

		rE, rI, _, err := wilsoncowan.SolveTwoPopulation(p)
		Expect(err).NotTo(HaveOccurred())

		finalE, finalI := rE[len(rE)-1], rI[len(rI)-1]
		Expect(finalE).To(BeNumerically(">", 0))
		Expect(finalE).To(BeNumerically("~", finalI, 1e-6))
		// r = [0.5r - 0.5r + 1]_+ has the unique solution r = 1.
		Expect(finalE).To(BeNumerically("~", 1.0, 1e-6))

		net, err := wilsoncowan.NewNetwork(p.Network().Weights, p.Network().Drive, p.Network().Tau)
		Expect(err).NotTo(HaveOccurred())
		Expect(net.FixedPoint(dynamo.State{finalE, finalI}, 1e-6)).To(BeTrue())
	})

	It("feeds every recorded sample to attached metrics", func() {
		final := metrics.NewFinal(0)
		peak := metrics.NewPeak()

		tr, err := wilsoncowan.Solve(symmetricScenario().Network(), final, peak)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Metrics).To(HaveKeyWithValue(final.Name(), tr.Final(0)))
		Expect(tr.Metrics[peak.Name()]).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("integrates independent populations toward their own drives", func() {
		drive := []float64{0.5, 1.0, 3.0}
		tr, err := wilsoncowan.Solve(wilsoncowan.Params{
			Drive:   drive,
			Weights: mat.NewDense(3, 3, nil),
			Tau:     []float64{1, 2, 4},
			Dt:      0.05,
			TEnd:    100,
		})
		Expect(err).NotTo(HaveOccurred())
		for i, want := range drive {
			Expect(tr.Final(i)).To(BeNumerically("~", want, 1e-6))
		}
	})

	Describe("validation", func() {
		It("rejects a 3x3 matrix with a length-2 drive", func() {
			_, err := wilsoncowan.Solve(wilsoncowan.Params{
				Drive:   []float64{1, 1},
				Weights: mat.NewDense(3, 3, nil),
				Tau:     []float64{1, 1, 1},
				Dt:      0.1,
				TEnd:    1,
			})
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		DescribeTable("rejects malformed shapes",
			func(w mat.Matrix, drive, tau []float64) {
				tr, err := wilsoncowan.Solve(wilsoncowan.Params{Drive: drive, Weights: w, Tau: tau, Dt: 0.1, TEnd: 1})
				Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
				Expect(tr).To(BeNil())
			},
			Entry("nil weights", nil, []float64{1}, []float64{1}),
			Entry("empty weights", &mat.Dense{}, []float64{}, []float64{}),
			Entry("non-square weights", mat.NewDense(2, 3, nil), []float64{1, 1}, []float64{1, 1}),
			Entry("short tau", mat.NewDense(2, 2, nil), []float64{1, 1}, []float64{1}),
		)

		DescribeTable("rejects non-positive parameters before integrating",
			func(mutate func(*wilsoncowan.TwoPopulationParams)) {
				p := symmetricScenario()
				mutate(&p)
				rE, rI, T, err := wilsoncowan.SolveTwoPopulation(p)
				Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
				Expect(rE).To(BeNil())
				Expect(rI).To(BeNil())
				Expect(T).To(BeNil())
			},
			Entry("zero tau_E", func(p *wilsoncowan.TwoPopulationParams) { p.TauE = 0 }),
			Entry("negative tau_I", func(p *wilsoncowan.TwoPopulationParams) { p.TauI = -1 }),
			Entry("NaN tau_E", func(p *wilsoncowan.TwoPopulationParams) { p.TauE = math.NaN() }),
			Entry("zero dt", func(p *wilsoncowan.TwoPopulationParams) { p.Dt = 0 }),
			Entry("negative dt", func(p *wilsoncowan.TwoPopulationParams) { p.Dt = -0.1 }),
			Entry("zero T_end", func(p *wilsoncowan.TwoPopulationParams) { p.TEnd = 0 }),
			Entry("infinite T_end", func(p *wilsoncowan.TwoPopulationParams) { p.TEnd = math.Inf(1) }),
			Entry("step count overflowing the grid", func(p *wilsoncowan.TwoPopulationParams) { p.Dt = 1e-300 }),
			Entry("step count beyond the limit", func(p *wilsoncowan.TwoPopulationParams) { p.Dt, p.TEnd = 1e-12, 1e8 }),
		)
	})
})

var _ = Describe("TwoPopulationParams", func() {
	It("sets and reads parameters by name", func() {
		var p wilsoncowan.TwoPopulationParams
		for i, name := range wilsoncowan.ParamNames() {
			Expect(p.SetParam(name, float64(i+1))).To(Succeed())
		}
		got := p.GetParams()
		for i, name := range wilsoncowan.ParamNames() {
			Expect(got).To(HaveKeyWithValue(name, float64(i+1)))
		}
	})

	It("rejects unknown names", func() {
		var p wilsoncowan.TwoPopulationParams
		Expect(p.SetParam("gain", 1)).To(MatchError(ContainSubstring("unknown parameter")))
	})
})
