package growth

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/util"
)

// NoPriority treats every lesion alike: full demand when the blade can
// afford it, proportional rationing otherwise.
type NoPriority struct{}

// Control grants growth offers on every blade of the store.
func (NoPriority) Control(s canopy.Store) error {
	for _, blade := range s.Blades() {
		if err := noPriorityBlade(s, blade); err != nil {
			return err
		}
	}

	return nil
}

func noPriorityBlade(s canopy.Store, blade string) error {
	refs := canopy.ActiveLesions(s, blade)
	if len(refs) == 0 {
		return nil
	}

	surf := canopy.MeasureBlade(s, blade)
	if surf.HealthyArea < 0 {
		return &InvariantError{Blade: blade, Msg: "negative healthy area"}
	}

	totalDemand := 0.0
	for _, ref := range refs {
		totalDemand += ref.Lesion.GrowthDemand()
	}

	if totalDemand <= surf.HealthyArea {
		for _, ref := range refs {
			ref.Lesion.ControlGrowth(ref.Lesion.GrowthDemand())
		}
		return nil
	}

	// totalDemand > healthyArea >= 0 here, so the denominator is safe.
	for _, ref := range refs {
		offer := util.Round(
			surf.HealthyArea*ref.Lesion.GrowthDemand()/totalDemand,
			offerPrecision)
		ref.Lesion.ControlGrowth(offer)
	}

	return nil
}
