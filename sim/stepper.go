package sim

import (
	"log"
	"sync"

	"github.com/phytolab/epileaf/canopy"
)

// A CanopyGrower advances the plant architecture when the canopy clock
// fires.
type CanopyGrower interface {
	Grow(s canopy.Store, f *Fire) error
}

// A Contaminator deposits externally sourced inoculum when the dispersal
// clock fires.
type Contaminator interface {
	Contaminate(s canopy.Store, f *Fire) error
}

// A LesionUpdater advances the physiological state of dispersal units and
// lesions over a disease interval: infection attempts, stage transitions,
// and the growth demands the allocator will read.
type LesionUpdater interface {
	Update(s canopy.Store, f *Fire) error
}

// A Transporter moves spores between leaves when the dispersal clock
// fires.
type Transporter interface {
	Disperse(s canopy.Store, f *Fire) error
}

// A Recorder snapshots the epidemic state after each disease interval.
type Recorder interface {
	Record(s canopy.Store, f *Fire) error
}

// An AreaController mutates the leaf/lesion/dispersal-unit collections of
// a store: growth policies and the placement controller both satisfy it.
type AreaController interface {
	Control(s canopy.Store) error
}

// Stepper phase names, exposed through hooks.
const (
	PhaseCanopy        = "canopy_growth"
	PhaseContamination = "contamination"
	PhaseInfection     = "infection"
	PhaseUpdate        = "lesion_update"
	PhaseGrowth        = "growth_allocation"
	PhaseDispersal     = "dispersal"
	PhaseRecording     = "recording"
)

// An EpidemicStepper drives one simulation tick: it queries the clock
// orchestrator and runs the fired subsystems in a fixed phase order.
// Everything is synchronous; an error from any phase aborts the tick and
// propagates to the caller.
type EpidemicStepper struct {
	HookableBase

	clocks *ClockOrchestrator
	store  canopy.Store

	placement AreaController
	allocator AreaController
	grower    CanopyGrower
	contam    Contaminator
	updater   LesionUpdater
	transport Transporter
	recorder  Recorder

	isPaused  bool
	pauseCond *sync.Cond

	endHandlers []func()
}

// A StepperConfig wires an EpidemicStepper. Clocks, Store, and Allocator
// are required; every collaborator left nil simply skips its phase.
type StepperConfig struct {
	Clocks    *ClockOrchestrator
	Store     canopy.Store
	Allocator AreaController

	Placement    AreaController
	Grower       CanopyGrower
	Contaminator Contaminator
	Updater      LesionUpdater
	Transporter  Transporter
	Recorder     Recorder
}

// NewEpidemicStepper creates a stepper. Missing required collaborators
// are configuration errors.
func NewEpidemicStepper(cfg StepperConfig) *EpidemicStepper {
	if cfg.Clocks == nil {
		log.Panic("sim: stepper needs a clock orchestrator")
	}
	if !cfg.Clocks.HasGate(GateDisease) {
		log.Panicf("sim: stepper needs a %s gate", GateDisease)
	}
	if cfg.Store == nil {
		log.Panic("sim: stepper needs a canopy store")
	}
	if cfg.Allocator == nil {
		log.Panic("sim: stepper needs a growth allocator")
	}

	s := &EpidemicStepper{
		clocks:    cfg.Clocks,
		store:     cfg.Store,
		placement: cfg.Placement,
		allocator: cfg.Allocator,
		grower:    cfg.Grower,
		contam:    cfg.Contaminator,
		updater:   cfg.Updater,
		transport: cfg.Transporter,
		recorder:  cfg.Recorder,
	}
	s.pauseCond = sync.NewCond(&sync.Mutex{})

	return s
}

// Store returns the canopy store the stepper mutates.
func (s *EpidemicStepper) Store() canopy.Store {
	return s.store
}

// Clocks returns the clock orchestrator.
func (s *EpidemicStepper) Clocks() *ClockOrchestrator {
	return s.clocks
}

// Pause suspends Run before its next tick until Continue is called.
func (s *EpidemicStepper) Pause() {
	s.pauseCond.L.Lock()
	s.isPaused = true
	s.pauseCond.L.Unlock()
}

// Continue resumes a paused Run.
func (s *EpidemicStepper) Continue() {
	s.pauseCond.L.Lock()
	s.isPaused = false
	s.pauseCond.L.Unlock()
	s.pauseCond.Signal()
}

// RegisterEndHandler registers a function invoked after the master
// sequence is exhausted.
func (s *EpidemicStepper) RegisterEndHandler(f func()) {
	s.endHandlers = append(s.endHandlers, f)
}

// Run steps through the whole master sequence.
func (s *EpidemicStepper) Run() error {
	for {
		s.waitIfPaused()

		ok, err := s.Step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}

	for _, f := range s.endHandlers {
		f()
	}

	return nil
}

func (s *EpidemicStepper) waitIfPaused() {
	s.pauseCond.L.Lock()
	for s.isPaused {
		s.pauseCond.Wait()
	}
	s.pauseCond.L.Unlock()
}

// Step runs one master tick. It returns ok=false once the master
// sequence is exhausted.
func (s *EpidemicStepper) Step() (ok bool, err error) {
	fires, ok := s.clocks.Tick()
	if !ok {
		return false, nil
	}

	canopyFire := s.fireOf(fires, GateCanopy)
	dispersalFire := s.fireOf(fires, GateDispersal)
	diseaseFire := s.clocks.Fire(fires, GateDisease)

	if canopyFire != nil && s.grower != nil {
		if err := s.phase(PhaseCanopy, canopyFire, func() error {
			return s.grower.Grow(s.store, canopyFire)
		}); err != nil {
			return true, err
		}
	}

	if dispersalFire != nil && s.contam != nil {
		if err := s.phase(PhaseContamination, dispersalFire, func() error {
			return s.contam.Contaminate(s.store, dispersalFire)
		}); err != nil {
			return true, err
		}
	}

	if diseaseFire != nil {
		if s.placement != nil {
			if err := s.phase(PhaseInfection, diseaseFire, func() error {
				return s.placement.Control(s.store)
			}); err != nil {
				return true, err
			}
		}

		if s.updater != nil {
			if err := s.phase(PhaseUpdate, diseaseFire, func() error {
				return s.updater.Update(s.store, diseaseFire)
			}); err != nil {
				return true, err
			}
		}

		if err := s.phase(PhaseGrowth, diseaseFire, func() error {
			return s.allocator.Control(s.store)
		}); err != nil {
			return true, err
		}
	}

	if dispersalFire != nil && s.transport != nil {
		if err := s.phase(PhaseDispersal, dispersalFire, func() error {
			return s.transport.Disperse(s.store, dispersalFire)
		}); err != nil {
			return true, err
		}
	}

	if diseaseFire != nil && s.recorder != nil {
		if err := s.phase(PhaseRecording, diseaseFire, func() error {
			return s.recorder.Record(s.store, diseaseFire)
		}); err != nil {
			return true, err
		}
	}

	return true, nil
}

func (s *EpidemicStepper) fireOf(fires []*Fire, gate string) *Fire {
	if !s.clocks.HasGate(gate) {
		return nil
	}

	return s.clocks.Fire(fires, gate)
}

func (s *EpidemicStepper) phase(
	name string,
	f *Fire,
	run func() error,
) error {
	ctx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforePhase,
		Item:   name,
		Detail: f,
	}
	s.InvokeHook(ctx)

	err := run()

	ctx.Pos = HookPosAfterPhase
	s.InvokeHook(ctx)

	return err
}

// Progress reports consumed and total master ticks.
func (s *EpidemicStepper) Progress() (done, total int) {
	return s.clocks.TicksDone(), s.clocks.TicksTotal()
}
