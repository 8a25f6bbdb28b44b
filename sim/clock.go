package sim

import "log"

// Standard gate names used by the epidemic stepper.
const (
	GateCanopy    = "canopy"
	GateDispersal = "dispersal"
	GateDisease   = "disease"
)

// A ClockOrchestrator advances several independently configured TimeGates
// over the same master sequence. Gates are evaluated in declared order on
// every master tick, and the firing of one gate never affects another's
// accumulator.
type ClockOrchestrator struct {
	gates []*TimeGate
	index map[string]int

	tick int
}

// NewClockOrchestrator composes the given gates. All gates must share the
// same master sequence length and carry distinct names.
func NewClockOrchestrator(gates ...*TimeGate) *ClockOrchestrator {
	if len(gates) == 0 {
		log.Panic("sim: orchestrator needs at least one gate")
	}

	index := make(map[string]int, len(gates))
	for i, g := range gates {
		if _, dup := index[g.name]; dup {
			log.Panicf("sim: duplicate gate name %s", g.name)
		}
		index[g.name] = i

		if g.table.Len() != gates[0].table.Len() {
			log.Panicf("sim: gate %s walks a different master sequence",
				g.name)
		}
	}

	return &ClockOrchestrator{gates: gates, index: index}
}

// Tick evaluates every gate on the next row of the master sequence. The
// returned slice has one entry per gate in declared order; entries are nil
// for gates that did not fire. ok is false once the sequence is exhausted.
func (c *ClockOrchestrator) Tick() (fires []*Fire, ok bool) {
	fires = make([]*Fire, len(c.gates))

	for i, g := range c.gates {
		f, alive := g.Next()
		if !alive {
			return nil, false
		}
		fires[i] = f
	}

	c.tick++

	return fires, true
}

// Fire returns the entry of the named gate within a Tick result.
func (c *ClockOrchestrator) Fire(fires []*Fire, name string) *Fire {
	i, ok := c.index[name]
	if !ok {
		log.Panicf("sim: unknown gate %s", name)
	}

	return fires[i]
}

// HasGate tells if a gate with the given name is declared.
func (c *ClockOrchestrator) HasGate(name string) bool {
	_, ok := c.index[name]
	return ok
}

// TicksDone returns the number of master rows consumed so far.
func (c *ClockOrchestrator) TicksDone() int {
	return c.tick
}

// TicksTotal returns the length of the master sequence.
func (c *ClockOrchestrator) TicksTotal() int {
	return c.gates[0].table.Len()
}
