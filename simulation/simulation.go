// Package simulation assembles the pieces of an epidemic run: clocks,
// stepper, recorder, and monitor.
package simulation

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/datarecording"
	"github.com/phytolab/epileaf/monitoring"
	"github.com/phytolab/epileaf/outputs"
	"github.com/phytolab/epileaf/sim"
)

// A Simulation bundles the services of one epidemic run.
type Simulation struct {
	id string

	stepper      *sim.EpidemicStepper
	dataRecorder datarecording.DataRecorder
	recorder     *outputs.Recorder
	monitor      *monitoring.Monitor
}

// ID returns the unique run identifier.
func (s *Simulation) ID() string {
	return s.id
}

// Stepper returns the stepper driving the run.
func (s *Simulation) Stepper() *sim.EpidemicStepper {
	return s.stepper
}

// DataRecorder returns the raw table recorder of the run.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Recorder returns the epidemic recorder, or nil when recording is
// disabled.
func (s *Simulation) Recorder() *outputs.Recorder {
	return s.recorder
}

// Monitor returns the web monitor, or nil when monitoring is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Store returns the canopy store of the run.
func (s *Simulation) Store() canopy.Store {
	return s.stepper.Store()
}

// Run steps through the whole master sequence.
func (s *Simulation) Run() error {
	return s.stepper.Run()
}

// Terminate flushes and closes the run's recorder.
func (s *Simulation) Terminate() {
	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}
}
