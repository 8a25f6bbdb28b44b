package simulation

import (
	"github.com/rs/xid"

	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/datarecording"
	"github.com/phytolab/epileaf/monitoring"
	"github.com/phytolab/epileaf/outputs"
	"github.com/phytolab/epileaf/sim"
	"github.com/phytolab/epileaf/weather"
)

// A Builder builds a Simulation.
type Builder struct {
	table *weather.Table
	store canopy.Store

	tBase          float64
	canopyDelay    float64
	dispersalDelay float64
	diseaseDelay   float64

	allocator sim.AreaController
	placement sim.AreaController
	grower    sim.CanopyGrower
	contam    sim.Contaminator
	updater   sim.LesionUpdater
	transport sim.Transporter

	recordOn       bool
	outputFileName string

	monitorOn   bool
	monitorPort int
	openBrowser bool
}

// MakeBuilder creates a builder with the delays of a typical seasonal
// run: canopy and disease every 20 degree days, dispersal daily.
func MakeBuilder() Builder {
	return Builder{
		canopyDelay:    20,
		dispersalDelay: 24,
		diseaseDelay:   20,
		recordOn:       true,
		monitorOn:      true,
	}
}

// WithWeather sets the master weather table.
func (b Builder) WithWeather(t *weather.Table) Builder {
	b.table = t
	return b
}

// WithStore sets the canopy store.
func (b Builder) WithStore(s canopy.Store) Builder {
	b.store = s
	return b
}

// WithTBase sets the base temperature of the thermal clocks.
func (b Builder) WithTBase(t float64) Builder {
	b.tBase = t
	return b
}

// WithCanopyDelay sets the canopy clock period in degree days.
func (b Builder) WithCanopyDelay(dd float64) Builder {
	b.canopyDelay = dd
	return b
}

// WithDispersalDelay sets the dispersal clock period in hours.
func (b Builder) WithDispersalDelay(hours float64) Builder {
	b.dispersalDelay = hours
	return b
}

// WithDiseaseDelay sets the disease clock period in degree days.
func (b Builder) WithDiseaseDelay(dd float64) Builder {
	b.diseaseDelay = dd
	return b
}

// WithAllocator sets the growth allocation policy.
func (b Builder) WithAllocator(p sim.AreaController) Builder {
	b.allocator = p
	return b
}

// WithPlacement sets the infection placement controller.
func (b Builder) WithPlacement(p sim.AreaController) Builder {
	b.placement = p
	return b
}

// WithGrower sets the canopy growth model.
func (b Builder) WithGrower(g sim.CanopyGrower) Builder {
	b.grower = g
	return b
}

// WithContaminator sets the external inoculation model.
func (b Builder) WithContaminator(c sim.Contaminator) Builder {
	b.contam = c
	return b
}

// WithUpdater sets the lesion physiological model.
func (b Builder) WithUpdater(u sim.LesionUpdater) Builder {
	b.updater = u
	return b
}

// WithTransporter sets the spore transport model.
func (b Builder) WithTransporter(t sim.Transporter) Builder {
	b.transport = t
	return b
}

// WithOutputFileName sets the output database name.
func (b Builder) WithOutputFileName(name string) Builder {
	b.outputFileName = name
	return b
}

// WithoutRecording disables the epidemic recorder.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithoutMonitoring disables the web monitor.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the monitoring server port.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring dashboard on start.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.table == nil {
		panic("simulation: weather table is required")
	}
	if b.store == nil {
		panic("simulation: canopy store is required")
	}
	if b.allocator == nil {
		panic("simulation: growth allocator is required")
	}
	if !b.monitorOn && b.monitorPort != 0 {
		panic("simulation: monitor port cannot be set when monitoring" +
			" is disabled")
	}
}

// Build assembles the simulation. Invalid parameters panic.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{id: xid.New().String()}

	model := weather.DegreeDayModel{TBase: b.tBase}

	clocks := sim.NewClockOrchestrator(
		sim.NewThermalGate(
			sim.GateCanopy, b.table, model, b.canopyDelay, sim.EvalAtEnd),
		sim.NewCalendarGate(
			sim.GateDispersal, b.table, b.dispersalDelay, sim.EvalAtStart),
		sim.NewThermalGate(
			sim.GateDisease, b.table, model, b.diseaseDelay, sim.EvalAtEnd),
	)

	var recorder sim.Recorder
	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "epileaf_run_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.recorder = outputs.NewRecorder(s.dataRecorder, model)
		recorder = s.recorder
	}

	s.stepper = sim.NewEpidemicStepper(sim.StepperConfig{
		Clocks:       clocks,
		Store:        b.store,
		Allocator:    b.allocator,
		Placement:    b.placement,
		Grower:       b.grower,
		Contaminator: b.contam,
		Updater:      b.updater,
		Transporter:  b.transport,
		Recorder:     recorder,
	})

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterStepper(s.stepper)
		s.monitor.RegisterComponent("allocator", b.allocator)
		s.monitor.StartServer()
	}

	return s
}
