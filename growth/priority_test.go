package growth

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phytolab/epileaf/disease"
)

var _ = Describe("Priority", func() {
	It("should serve full demand when the blade can afford it", func() {
		a := &stubLesion{
			id: "a", status: disease.StatusChlorotic, demand: 30, count: 1,
		}
		b := &stubLesion{
			id: "b", status: disease.StatusIncubating, demand: 40, count: 1,
		}
		s := singleLeafStore(100, a, b)

		Expect(Priority{}.Control(s)).To(Succeed())

		Expect(a.offers).To(Equal([]float64{30}))
		Expect(b.offers).To(Equal([]float64{40}))
	})

	It("should serve established lesions first under shortage", func() {
		a := &stubLesion{
			id: "a", status: disease.StatusChlorotic, demand: 60, count: 1,
		}
		b := &stubLesion{
			id: "b", status: disease.StatusIncubating, demand: 90, count: 1,
		}
		s := singleLeafStore(100, a, b)

		Expect(Priority{}.Control(s)).To(Succeed())

		Expect(a.offers[0]).To(BeNumerically("~", 60, 1e-12))
		Expect(b.offers[0]).To(BeNumerically("~", 40, 1e-12))
	})

	It("should starve young lesions when the prior tier overflows", func() {
		a := &stubLesion{
			id: "a", status: disease.StatusNecrotic, demand: 80, count: 1,
		}
		b := &stubLesion{
			id: "b", status: disease.StatusChlorotic, demand: 60, count: 1,
		}
		c := &stubLesion{
			id: "c", status: disease.StatusIncubating, demand: 10, count: 1,
		}
		s := singleLeafStore(100, a, b, c)

		Expect(Priority{}.Control(s)).To(Succeed())

		Expect(c.offers).To(Equal([]float64{0}))
		Expect(a.offers[0]).To(BeNumerically("~", 100.0*80/140, 1e-9))
		Expect(b.offers[0]).To(BeNumerically("~", 100.0*60/140, 1e-9))
	})

	It("should treat sporulating lesions as established", func() {
		a := &stubLesion{
			id: "a", status: disease.StatusSporulating, demand: 70, count: 1,
		}
		b := &stubLesion{
			id: "b", status: disease.StatusIncubating, demand: 70, count: 1,
		}
		s := singleLeafStore(100, a, b)

		Expect(Priority{}.Control(s)).To(Succeed())

		Expect(a.offers[0]).To(BeNumerically("~", 70, 1e-12))
		Expect(b.offers[0]).To(BeNumerically("~", 30, 1e-12))
	})

	It("should never grant more than the healthy area in total", func() {
		a := &stubLesion{
			id: "a", status: disease.StatusChlorotic, demand: 55, count: 1,
		}
		b := &stubLesion{
			id: "b", status: disease.StatusIncubating, demand: 200, count: 1,
		}
		c := &stubLesion{
			id: "c", status: disease.StatusIncubating, demand: 35, count: 1,
		}
		s := singleLeafStore(100, a, b, c)

		Expect(Priority{}.Control(s)).To(Succeed())

		total := a.offers[0] + b.offers[0] + c.offers[0]
		Expect(total).To(BeNumerically("<=", 100+1e-9))
	})
})
