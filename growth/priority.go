package growth

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/disease"
	"github.com/phytolab/epileaf/util"
)

// Priority serves established lesions first: lesions at or beyond the
// chlorotic stage take their full demand before younger lesions see any
// area.
type Priority struct{}

// Control grants growth offers on every blade of the store.
func (Priority) Control(s canopy.Store) error {
	for _, blade := range s.Blades() {
		if err := priorityBlade(s, blade); err != nil {
			return err
		}
	}

	return nil
}

func priorityBlade(s canopy.Store, blade string) error {
	refs := canopy.ActiveLesions(s, blade)
	if len(refs) == 0 {
		return nil
	}

	surf := canopy.MeasureBlade(s, blade)
	healthy := surf.HealthyArea

	totalDemand := 0.0
	for _, ref := range refs {
		totalDemand += ref.Lesion.GrowthDemand()
	}

	if totalDemand <= healthy {
		for _, ref := range refs {
			ref.Lesion.ControlGrowth(ref.Lesion.GrowthDemand())
		}
		return nil
	}

	var prior, nonPrior []canopy.LesionRef
	priorDemand, nonPriorDemand := 0.0, 0.0
	for _, ref := range refs {
		if ref.Lesion.Status() >= disease.StatusChlorotic {
			prior = append(prior, ref)
			priorDemand += ref.Lesion.GrowthDemand()
		} else {
			nonPrior = append(nonPrior, ref)
			nonPriorDemand += ref.Lesion.GrowthDemand()
		}
	}

	if priorDemand > healthy {
		for _, ref := range nonPrior {
			ref.Lesion.ControlGrowth(0)
		}
		for _, ref := range prior {
			offer := util.Round(
				healthy*ref.Lesion.GrowthDemand()/priorDemand,
				offerPrecision)
			ref.Lesion.ControlGrowth(offer)
		}
		return nil
	}

	for _, ref := range prior {
		ref.Lesion.ControlGrowth(ref.Lesion.GrowthDemand())
	}

	remaining := healthy - priorDemand

	// This branch only runs when total demand exceeds the healthy area,
	// so the non-prior tier must be able to absorb what is left. A
	// shortfall means the upstream biological model produced an
	// inconsistent demand split.
	if nonPriorDemand < remaining {
		return &InvariantError{
			Blade: blade,
			Msg: "non-prior demand below remaining area in priority" +
				" rationing",
		}
	}

	if nonPriorDemand <= 0 {
		for _, ref := range nonPrior {
			ref.Lesion.ControlGrowth(0)
		}
		return nil
	}

	for _, ref := range nonPrior {
		offer := util.Round(
			remaining*ref.Lesion.GrowthDemand()/nonPriorDemand,
			offerPrecision)
		ref.Lesion.ControlGrowth(offer)
	}

	return nil
}
