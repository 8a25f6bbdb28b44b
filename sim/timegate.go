// Package sim contains the temporal core of the epidemic simulation: the
// delay-gated clocks that slice the hourly weather sequence into
// independent iteration streams, and the stepper that drives one
// simulation tick through its phases.
package sim

import (
	"log"
	"time"

	"github.com/phytolab/epileaf/weather"
)

// EvalTime selects whether the values exposed by a fired interval are
// evaluated at the interval's first or last timestamp.
type EvalTime int

// The two evaluation policies.
const (
	EvalAtStart EvalTime = iota
	EvalAtEnd
)

// An Accumulator converts one row of the master sequence into gate time
// units. Calendar gates count hours, thermal gates count degree days.
type Accumulator interface {
	Increment(t *weather.Table, row int) float64
}

// CalendarAccumulator counts wall-clock hours.
type CalendarAccumulator struct{}

// Increment returns the hours elapsed over one row.
func (CalendarAccumulator) Increment(t *weather.Table, row int) float64 {
	return t.StepHours(row)
}

// ThermalAccumulator counts degree days above a base temperature.
type ThermalAccumulator struct {
	Model weather.DegreeDayModel
}

// Increment returns the degree days accumulated over one row.
func (a ThermalAccumulator) Increment(t *weather.Table, row int) float64 {
	return a.Model.Increment(
		t.Value(weather.ColTemperatureAir, row), t.StepHours(row))
}

// A Fire is one gated event: the accumulated interval emitted by a
// TimeGate when its delay threshold is reached.
type Fire struct {
	// Dt is the gate time accumulated since the previous fire, in the
	// gate's own units (hours or degree days).
	Dt float64

	// Slice spans the weather rows aggregated since the previous fire.
	Slice weather.Slice

	evalTime EvalTime
}

// EvalTime returns the timestamp at which the interval's values are to be
// evaluated, following the gate's policy.
func (f Fire) EvalTime() time.Time {
	if f.evalTime == EvalAtStart {
		return f.Slice.First()
	}

	return f.Slice.Last()
}

// A TimeGate walks the master sequence one row per call and emits a Fire
// whenever the accumulated gate time reaches its delay. The trailing
// partial interval at the end of the sequence always fires once, so no
// data is silently dropped.
//
// A gate is a single-pass cursor. It cannot be restarted.
type TimeGate struct {
	name     string
	table    *weather.Table
	acc      Accumulator
	delay    float64
	evalTime EvalTime

	// Calendar gates carry the overshoot of each fire into the next
	// period, so their periods stay phased with the master sequence.
	// Thermal gates restart from zero.
	keepRemainder bool

	cursor      int
	sliceStart  int
	accumulated float64
	carried     float64
}

// NewCalendarGate creates a gate that fires every delayHours wall-clock
// hours. A non-positive delay is a configuration error.
func NewCalendarGate(
	name string,
	table *weather.Table,
	delayHours float64,
	evalTime EvalTime,
) *TimeGate {
	g := newTimeGate(name, table, CalendarAccumulator{}, delayHours, evalTime)
	g.keepRemainder = true

	return g
}

// NewThermalGate creates a gate that fires every delayDD degree days
// under the given thermal-time model. A non-positive delay is a
// configuration error.
func NewThermalGate(
	name string,
	table *weather.Table,
	model weather.DegreeDayModel,
	delayDD float64,
	evalTime EvalTime,
) *TimeGate {
	return newTimeGate(
		name, table, ThermalAccumulator{Model: model}, delayDD, evalTime)
}

func newTimeGate(
	name string,
	table *weather.Table,
	acc Accumulator,
	delay float64,
	evalTime EvalTime,
) *TimeGate {
	if delay <= 0 {
		log.Panicf("sim: gate %s: delay must be positive, got %f",
			name, delay)
	}

	if table == nil || table.Len() == 0 {
		log.Panicf("sim: gate %s: empty master sequence", name)
	}

	return &TimeGate{
		name:     name,
		table:    table,
		acc:      acc,
		delay:    delay,
		evalTime: evalTime,
	}
}

// Name returns the gate name.
func (g *TimeGate) Name() string {
	return g.name
}

// Done tells if the master sequence is exhausted.
func (g *TimeGate) Done() bool {
	return g.cursor >= g.table.Len()
}

// Next consumes one row of the master sequence. It returns a non-nil Fire
// when the gate triggers on this row, and ok=false once the sequence is
// exhausted.
func (g *TimeGate) Next() (fire *Fire, ok bool) {
	if g.Done() {
		return nil, false
	}

	row := g.cursor
	g.cursor++
	g.accumulated += g.acc.Increment(g.table, row)

	if g.carried+g.accumulated >= g.delay {
		return g.emit(), true
	}

	if g.Done() && g.sliceStart < g.table.Len() {
		// Forced trailing fire: the final partial interval is emitted even
		// though it is under the delay threshold.
		return g.emit(), true
	}

	return nil, true
}

func (g *TimeGate) emit() *Fire {
	f := &Fire{
		Dt:       g.accumulated,
		Slice:    g.table.Slice(g.sliceStart, g.cursor),
		evalTime: g.evalTime,
	}

	if g.keepRemainder && g.carried+g.accumulated >= g.delay {
		g.carried = g.carried + g.accumulated - g.delay
	} else {
		g.carried = 0
	}

	g.accumulated = 0
	g.sliceStart = g.cursor

	return f
}
