package sim

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phytolab/epileaf/weather"
)

// hourlyTable builds a uniform hourly weather table of n rows at a
// constant air temperature.
func hourlyTable(n int, temperature float64) *weather.Table {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	times := make([]time.Time, n)
	temps := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = start.Add(time.Duration(i) * time.Hour)
		temps[i] = temperature
	}

	table, err := weather.NewTable(times,
		map[string][]float64{weather.ColTemperatureAir: temps})
	if err != nil {
		panic(fmt.Sprintf("hourlyTable: %v", err))
	}

	return table
}

// drainGate walks the gate over the whole master sequence and collects
// every fire.
func drainGate(g *TimeGate) []*Fire {
	var fires []*Fire

	for {
		f, ok := g.Next()
		if !ok {
			break
		}
		if f != nil {
			fires = append(fires, f)
		}
	}

	return fires
}

var _ = Describe("TimeGate", func() {
	Context("calendar gate", func() {
		It("should fire once per delay period over a uniform series", func() {
			table := hourlyTable(48, 18)
			gate := NewCalendarGate("dispersal", table, 24, EvalAtStart)

			fires := drainGate(gate)

			Expect(fires).To(HaveLen(2))
			Expect(fires[0].Dt).To(BeNumerically("~", 24, 1e-9))
			Expect(fires[1].Dt).To(BeNumerically("~", 24, 1e-9))
		})

		It("should emit the trailing partial interval", func() {
			table := hourlyTable(25, 18)
			gate := NewCalendarGate("dispersal", table, 10, EvalAtStart)

			fires := drainGate(gate)

			Expect(fires).To(HaveLen(3))
			Expect(fires[0].Dt).To(BeNumerically("~", 10, 1e-9))
			Expect(fires[1].Dt).To(BeNumerically("~", 10, 1e-9))
			Expect(fires[2].Dt).To(BeNumerically("~", 5, 1e-9))
		})

		It("should sum its dt values to the elapsed hours", func() {
			table := hourlyTable(100, 18)
			gate := NewCalendarGate("dispersal", table, 7, EvalAtStart)

			total := 0.0
			for _, f := range drainGate(gate) {
				total += f.Dt
			}

			Expect(total).To(BeNumerically("~", 100, 1e-9))
		})

		It("should cover the master sequence with contiguous slices", func() {
			table := hourlyTable(50, 18)
			gate := NewCalendarGate("dispersal", table, 13, EvalAtStart)

			fires := drainGate(gate)

			Expect(fires[0].Slice.First()).To(Equal(table.Time(0)))
			for i := 1; i < len(fires); i++ {
				gap := fires[i].Slice.First().Sub(fires[i-1].Slice.Last())
				Expect(gap).To(Equal(time.Hour))
			}
			Expect(fires[len(fires)-1].Slice.Last()).
				To(Equal(table.Time(49)))
		})

		It("should evaluate at the interval start", func() {
			table := hourlyTable(48, 18)
			gate := NewCalendarGate("dispersal", table, 24, EvalAtStart)

			fires := drainGate(gate)

			Expect(fires[0].EvalTime()).To(Equal(table.Time(0)))
			Expect(fires[1].EvalTime()).To(Equal(table.Time(24)))
		})
	})

	Context("thermal gate", func() {
		It("should fire on accumulated degree days", func() {
			// 24 degC over Tbase 0 accrues one degree day per hour.
			table := hourlyTable(48, 24)
			gate := NewThermalGate("disease", table,
				weather.DegreeDayModel{TBase: 0}, 20, EvalAtEnd)

			fires := drainGate(gate)

			Expect(fires).To(HaveLen(3))
			Expect(fires[0].Dt).To(BeNumerically("~", 20, 1e-9))
			Expect(fires[1].Dt).To(BeNumerically("~", 20, 1e-9))
			Expect(fires[2].Dt).To(BeNumerically("~", 8, 1e-9))
		})

		It("should accrue nothing below the base temperature", func() {
			table := hourlyTable(48, -5)
			gate := NewThermalGate("disease", table,
				weather.DegreeDayModel{TBase: 0}, 20, EvalAtEnd)

			fires := drainGate(gate)

			// Only the forced trailing fire, with zero thermal time.
			Expect(fires).To(HaveLen(1))
			Expect(fires[0].Dt).To(BeZero())
			Expect(fires[0].Slice.Len()).To(Equal(48))
		})

		It("should evaluate at the interval end", func() {
			table := hourlyTable(48, 24)
			gate := NewThermalGate("disease", table,
				weather.DegreeDayModel{TBase: 0}, 20, EvalAtEnd)

			fires := drainGate(gate)

			Expect(fires[0].EvalTime()).To(Equal(table.Time(19)))
		})
	})

	It("should panic on a non-positive delay", func() {
		table := hourlyTable(10, 18)

		Expect(func() {
			NewCalendarGate("dispersal", table, 0, EvalAtStart)
		}).To(Panic())
		Expect(func() {
			NewThermalGate("disease", table,
				weather.DegreeDayModel{}, -1, EvalAtEnd)
		}).To(Panic())
	})

	It("should return ok=false once the sequence is exhausted", func() {
		table := hourlyTable(3, 18)
		gate := NewCalendarGate("dispersal", table, 24, EvalAtStart)

		drainGate(gate)

		f, ok := gate.Next()
		Expect(ok).To(BeFalse())
		Expect(f).To(BeNil())
	})
})
