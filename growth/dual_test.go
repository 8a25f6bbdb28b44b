package growth

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phytolab/epileaf/disease"
)

var _ = Describe("DualFungus", func() {
	It("should panic on an empty prioritized kind", func() {
		Expect(func() { NewDualFungus("") }).To(Panic())
	})

	It("should grant the prioritized kind first access", func() {
		rust := &stubLesion{
			kind: "rust", status: disease.StatusChlorotic,
			potential: 2, demand: 1, count: 1,
		}
		septoria := &stubLesion{
			kind: "septoria", status: disease.StatusChlorotic,
			potential: 2, demand: 1, count: 1,
		}
		s := singleLeafStore(20, rust, septoria)

		Expect(NewDualFungus("rust").Control(s)).To(Succeed())

		// The prioritized tier is alone on the green area; the other
		// tier only gets what the joint occupancy leaves on top of it.
		truePrior := 20 * (1 - math.Exp(-2.0/20))
		trueBoth := 20 * (1 - math.Exp(-4.0/20))

		Expect(rust.offers).To(HaveLen(1))
		Expect(rust.offers[0]).To(BeNumerically("~", truePrior, 1e-9))
		Expect(septoria.offers).To(HaveLen(1))
		Expect(septoria.offers[0]).
			To(BeNumerically("~", trueBoth-truePrior, 1e-9))
	})

	It("should not prioritize incubating lesions of the prioritized kind",
		func() {
			rust := &stubLesion{
				kind: "rust", status: disease.StatusIncubating,
				potential: 2, demand: 1, count: 1,
			}
			s := singleLeafStore(20, rust)

			Expect(NewDualFungus("rust").Control(s)).To(Succeed())

			// With no prioritized tier the lesion competes in the shared
			// pool.
			trueBoth := 20 * (1 - math.Exp(-2.0/20))
			Expect(rust.offers[0]).To(BeNumerically("~", trueBoth, 1e-9))
		})

	It("should keep the joint growth below the green area", func() {
		rust := &stubLesion{
			kind: "rust", status: disease.StatusSporulating,
			potential: 30, demand: 10, count: 1,
		}
		septoria := &stubLesion{
			kind: "septoria", status: disease.StatusNecrotic,
			potential: 30, demand: 10, count: 1,
		}
		s := singleLeafStore(10, rust, septoria)

		Expect(NewDualFungus("rust").Control(s)).To(Succeed())

		total := rust.offers[0] + septoria.offers[0]
		Expect(total).To(BeNumerically("<=", 10+1e-9))
	})
})
