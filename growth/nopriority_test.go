package growth

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NoPriority", func() {
	It("should serve full demand when the blade can afford it", func() {
		a := &stubLesion{id: "a", demand: 30, count: 1}
		b := &stubLesion{id: "b", demand: 40, count: 1}
		s := singleLeafStore(100, a, b)

		Expect(NoPriority{}.Control(s)).To(Succeed())

		Expect(a.offers).To(Equal([]float64{30}))
		Expect(b.offers).To(Equal([]float64{40}))
	})

	It("should ration proportionally when demand exceeds supply", func() {
		a := &stubLesion{id: "a", demand: 60, count: 1}
		b := &stubLesion{id: "b", demand: 90, count: 1}
		s := singleLeafStore(100, a, b)

		Expect(NoPriority{}.Control(s)).To(Succeed())

		Expect(a.offers).To(HaveLen(1))
		Expect(a.offers[0]).To(BeNumerically("~", 40, 1e-12))
		Expect(b.offers).To(HaveLen(1))
		Expect(b.offers[0]).To(BeNumerically("~", 60, 1e-12))
	})

	It("should never grant more than the healthy area in total", func() {
		a := &stubLesion{id: "a", demand: 123.4, count: 1}
		b := &stubLesion{id: "b", demand: 567.8, count: 1}
		c := &stubLesion{id: "c", demand: 0.01, count: 1}
		s := singleLeafStore(100, a, b, c)

		Expect(NoPriority{}.Control(s)).To(Succeed())

		total := a.offers[0] + b.offers[0] + c.offers[0]
		Expect(total).To(BeNumerically("<=", 100+1e-9))
	})

	It("should skip inactive lesions", func() {
		a := &stubLesion{id: "a", demand: 60, count: 1}
		b := &stubLesion{id: "b", demand: 90, count: 1, inactive: true}
		s := singleLeafStore(100, a, b)

		Expect(NoPriority{}.Control(s)).To(Succeed())

		Expect(a.offers).To(Equal([]float64{60}))
		Expect(b.offers).To(BeEmpty())
	})

	It("should do nothing on a blade without lesions", func() {
		s := singleLeafStore(100)

		Expect(NoPriority{}.Control(s)).To(Succeed())
	})

	It("should call ControlGrowth exactly once per lesion", func() {
		a := &stubLesion{id: "a", demand: 60, count: 1}
		s := singleLeafStore(100, a)

		Expect(NoPriority{}.Control(s)).To(Succeed())

		Expect(a.offers).To(HaveLen(1))
	})
})
