package growth

import (
	"log"

	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/disease"
	"github.com/phytolab/epileaf/util"
)

// DualFungus arbitrates two co-resident diseases on the same blades. One
// fungus kind is always prioritized once its lesions reach the chlorotic
// stage: it gets first access to the green area through the geometric
// occupancy law, and the other kind's occupancy is computed net of the
// area the prioritized kind already impacted.
type DualFungus struct {
	// Prioritized names the fungus kind served first.
	Prioritized string
}

// NewDualFungus creates the composite policy. An empty kind is a
// configuration error.
func NewDualFungus(prioritizedKind string) DualFungus {
	if prioritizedKind == "" {
		log.Panic("growth: dual-fungus policy needs a prioritized kind")
	}

	return DualFungus{Prioritized: prioritizedKind}
}

// Control grants growth offers on every blade of the store.
func (p DualFungus) Control(s canopy.Store) error {
	for _, blade := range s.Blades() {
		if err := p.controlBlade(s, blade); err != nil {
			return err
		}
	}

	return nil
}

func (p DualFungus) controlBlade(s canopy.Store, blade string) error {
	refs := canopy.ActiveLesions(s, blade)
	if len(refs) == 0 {
		return nil
	}

	area, greenArea := 0.0, 0.0
	for _, id := range s.LeavesOf(blade) {
		if leaf := s.Leaf(id); leaf != nil {
			area += leaf.Area
			greenArea += leaf.GreenArea
		}
	}

	ratioGreen := 0.0
	if area > 0 {
		ratioGreen = min(1, greenArea/area)
	}

	var prior, nonPrior []canopy.LesionRef
	var sPrior, sPotPrior, demandPrior float64
	var sNonPrior, sPotNonPrior, demandNonPrior float64

	for _, ref := range refs {
		l := ref.Lesion
		if l.Kind() == p.Prioritized && l.Status() >= disease.StatusChlorotic {
			prior = append(prior, ref)
			sPrior += l.SurfaceNonSenescent()
			sPotPrior += l.PotentialSurface()
			demandPrior += l.GrowthDemand()
		} else {
			nonPrior = append(nonPrior, ref)
			sNonPrior += l.SurfaceNonSenescent()
			sPotNonPrior += l.PotentialSurface()
			demandNonPrior += l.GrowthDemand()
		}
	}

	trueAreaPrior := 0.0
	if len(prior) > 0 {
		nbOnGreen := float64(len(prior)) * ratioGreen

		offerPrior := 0.0
		if util.Round(sPrior, 16) < util.Round(greenArea, 16) {
			trueAreaPrior = trueAreaImpacted(
				nbOnGreen, greenArea, sPotPrior/float64(len(prior)))
			offerPrior = trueAreaPrior - sPrior
		} else {
			r := greenArea / sPrior
			if util.Round(r, 14) < 1 {
				manageSenescenceBorder(s, blade, r)
			}
		}

		for _, ref := range prior {
			granted := 0.0
			if demandPrior > 0 {
				granted = ref.Lesion.GrowthDemand() * offerPrior / demandPrior
			}
			ref.Lesion.ControlGrowth(granted)
		}
	}

	if len(nonPrior) > 0 {
		nbLesions := float64(len(prior) + len(nonPrior))
		nbOnGreen := nbLesions * ratioGreen
		sPot := sPotPrior + sPotNonPrior

		trueAreaNonPrior := trueAreaImpacted(
			nbOnGreen, greenArea, sPot/nbLesions)
		offerNonPrior := trueAreaNonPrior - sNonPrior - trueAreaPrior

		for _, ref := range nonPrior {
			granted := 0.0
			if demandNonPrior > 0 {
				granted = ref.Lesion.GrowthDemand() *
					offerNonPrior / demandNonPrior
			}
			ref.Lesion.ControlGrowth(granted)
		}
	}

	return nil
}
