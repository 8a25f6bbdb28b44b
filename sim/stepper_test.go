package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/weather"
)

// phaseLog records every collaborator call in invocation order.
type phaseLog struct {
	calls []string
}

type logGrower struct{ log *phaseLog }

func (g logGrower) Grow(s canopy.Store, f *Fire) error {
	g.log.calls = append(g.log.calls, PhaseCanopy)
	return nil
}

type logContaminator struct{ log *phaseLog }

func (c logContaminator) Contaminate(s canopy.Store, f *Fire) error {
	c.log.calls = append(c.log.calls, PhaseContamination)
	return nil
}

type logUpdater struct{ log *phaseLog }

func (u logUpdater) Update(s canopy.Store, f *Fire) error {
	u.log.calls = append(u.log.calls, PhaseUpdate)
	return nil
}

type logTransporter struct{ log *phaseLog }

func (t logTransporter) Disperse(s canopy.Store, f *Fire) error {
	t.log.calls = append(t.log.calls, PhaseDispersal)
	return nil
}

type logRecorder struct{ log *phaseLog }

func (r logRecorder) Record(s canopy.Store, f *Fire) error {
	r.log.calls = append(r.log.calls, PhaseRecording)
	return nil
}

type logController struct {
	log  *phaseLog
	name string
}

func (c logController) Control(s canopy.Store) error {
	c.log.calls = append(c.log.calls, c.name)
	return nil
}

// hookLog collects the phase names seen by a before-phase hook.
type hookLog struct {
	phases []string
}

func (h *hookLog) Func(ctx HookCtx) {
	if ctx.Pos == HookPosBeforePhase {
		h.phases = append(h.phases, ctx.Item.(string))
	}
}

var _ = Describe("EpidemicStepper", func() {
	var (
		pl      *phaseLog
		stepper *EpidemicStepper
	)

	BeforeEach(func() {
		pl = &phaseLog{}

		// One-hour delays on a 1-degree-day-per-hour series make every
		// gate fire on every master tick.
		table := hourlyTable(3, 24)
		model := weather.DegreeDayModel{TBase: 0}
		clocks := NewClockOrchestrator(
			NewThermalGate(GateCanopy, table, model, 1, EvalAtEnd),
			NewCalendarGate(GateDispersal, table, 1, EvalAtStart),
			NewThermalGate(GateDisease, table, model, 1, EvalAtEnd),
		)

		stepper = NewEpidemicStepper(StepperConfig{
			Clocks:       clocks,
			Store:        canopy.NewMemStore(),
			Allocator:    logController{log: pl, name: PhaseGrowth},
			Placement:    logController{log: pl, name: PhaseInfection},
			Grower:       logGrower{log: pl},
			Contaminator: logContaminator{log: pl},
			Updater:      logUpdater{log: pl},
			Transporter:  logTransporter{log: pl},
			Recorder:     logRecorder{log: pl},
		})
	})

	It("should run phases in order within one tick", func() {
		ok, err := stepper.Step()

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(pl.calls).To(Equal([]string{
			PhaseCanopy,
			PhaseContamination,
			PhaseInfection,
			PhaseUpdate,
			PhaseGrowth,
			PhaseDispersal,
			PhaseRecording,
		}))
	})

	It("should run the whole master sequence and fire end handlers", func() {
		ended := false
		stepper.RegisterEndHandler(func() { ended = true })

		Expect(stepper.Run()).To(Succeed())
		Expect(ended).To(BeTrue())

		done, total := stepper.Progress()
		Expect(done).To(Equal(total))
		Expect(pl.calls).To(HaveLen(3 * 7))
	})

	It("should invoke hooks around each phase", func() {
		hl := &hookLog{}
		stepper.AcceptHook(hl)

		_, err := stepper.Step()

		Expect(err).ToNot(HaveOccurred())
		Expect(hl.phases).To(Equal(pl.calls))
	})

	It("should panic without a disease gate", func() {
		table := hourlyTable(3, 24)
		clocks := NewClockOrchestrator(
			NewCalendarGate(GateDispersal, table, 1, EvalAtStart))

		Expect(func() {
			NewEpidemicStepper(StepperConfig{
				Clocks:    clocks,
				Store:     canopy.NewMemStore(),
				Allocator: logController{log: pl, name: PhaseGrowth},
			})
		}).To(Panic())
	})

	It("should panic without an allocator", func() {
		Expect(func() {
			NewEpidemicStepper(StepperConfig{
				Clocks: stepper.Clocks(),
				Store:  canopy.NewMemStore(),
			})
		}).To(Panic())
	})
})
