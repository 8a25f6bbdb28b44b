package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phytolab/epileaf/weather"
)

var _ = Describe("ClockOrchestrator", func() {
	var (
		table *weather.Table
		model weather.DegreeDayModel
	)

	BeforeEach(func() {
		table = hourlyTable(48, 24)
		model = weather.DegreeDayModel{TBase: 0}
	})

	It("should keep gate accumulators independent", func() {
		orchestrator := NewClockOrchestrator(
			NewThermalGate(GateCanopy, table, model, 12, EvalAtEnd),
			NewCalendarGate(GateDispersal, table, 24, EvalAtStart),
			NewThermalGate(GateDisease, table, model, 20, EvalAtEnd),
		)

		counts := map[string]int{}
		for {
			fires, ok := orchestrator.Tick()
			if !ok {
				break
			}
			for _, name := range []string{
				GateCanopy, GateDispersal, GateDisease,
			} {
				if orchestrator.Fire(fires, name) != nil {
					counts[name]++
				}
			}
		}

		Expect(counts[GateCanopy]).To(Equal(4))
		Expect(counts[GateDispersal]).To(Equal(2))
		Expect(counts[GateDisease]).To(Equal(3))
	})

	It("should report progress over the master sequence", func() {
		orchestrator := NewClockOrchestrator(
			NewCalendarGate(GateDispersal, table, 24, EvalAtStart))

		Expect(orchestrator.TicksTotal()).To(Equal(48))
		Expect(orchestrator.TicksDone()).To(Equal(0))

		orchestrator.Tick()
		orchestrator.Tick()

		Expect(orchestrator.TicksDone()).To(Equal(2))
	})

	It("should tell which gates are declared", func() {
		orchestrator := NewClockOrchestrator(
			NewCalendarGate(GateDispersal, table, 24, EvalAtStart))

		Expect(orchestrator.HasGate(GateDispersal)).To(BeTrue())
		Expect(orchestrator.HasGate(GateCanopy)).To(BeFalse())
	})

	It("should panic on duplicate gate names", func() {
		Expect(func() {
			NewClockOrchestrator(
				NewCalendarGate(GateDispersal, table, 24, EvalAtStart),
				NewCalendarGate(GateDispersal, table, 12, EvalAtStart),
			)
		}).To(Panic())
	})

	It("should panic without gates", func() {
		Expect(func() { NewClockOrchestrator() }).To(Panic())
	})

	It("should panic when gates walk different master sequences", func() {
		other := hourlyTable(24, 24)

		Expect(func() {
			NewClockOrchestrator(
				NewCalendarGate(GateDispersal, table, 24, EvalAtStart),
				NewCalendarGate(GateCanopy, other, 24, EvalAtStart),
			)
		}).To(Panic())
	})
})
