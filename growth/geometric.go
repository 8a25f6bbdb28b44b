package growth

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/util"
)

// GeometricCircle models finite-size circular lesions competing for green
// area through the Poisson occupancy law: overlapping footprints waste
// area compared to naive summation.
type GeometricCircle struct{}

// Control grants growth offers on every blade of the store.
func (GeometricCircle) Control(s canopy.Store) error {
	for _, blade := range s.Blades() {
		if err := geometricBlade(s, blade); err != nil {
			return err
		}
	}

	return nil
}

func geometricBlade(s canopy.Store, blade string) error {
	refs := canopy.ActiveLesions(s, blade)
	if len(refs) == 0 {
		return nil
	}

	nbNonSen := 0.0
	potSurf := 0.0
	surfNonSen := 0.0
	totalDemand := 0.0
	for _, ref := range refs {
		nbNonSen += ref.Lesion.NonSenescentCount()
		potSurf += ref.Lesion.PotentialSurface()
		surfNonSen += ref.Lesion.SurfaceNonSenescent()
		totalDemand += ref.Lesion.GrowthDemand()
	}

	if nbNonSen <= 0 {
		return nil
	}

	greenArea := 0.0
	for _, id := range s.LeavesOf(blade) {
		if leaf := s.Leaf(id); leaf != nil {
			greenArea += leaf.GreenArea
		}
	}

	offer := 0.0
	if util.Round(surfNonSen, 16) < util.Round(greenArea, 16) {
		impacted := trueAreaImpacted(nbNonSen, greenArea, potSurf/nbNonSen)
		offer = impacted - surfNonSen
	} else {
		// The lesion population already fills the green tissue. No growth
		// this tick; instead, pull the senescence front bookkeeping back
		// into agreement with the occupied surface.
		r := greenArea / surfNonSen
		if util.Round(r, 14) < 1 {
			manageSenescenceBorder(s, blade, r)
		}
	}

	if offer > 0 {
		for _, ref := range refs {
			granted := 0.0
			if totalDemand > 0 {
				granted = ref.Lesion.GrowthDemand() * offer / totalDemand
			}
			ref.Lesion.ControlGrowth(granted)
		}
		return nil
	}

	for _, ref := range refs {
		ref.Lesion.ControlGrowth(
			offer * ref.Lesion.NonSenescentCount() / nbNonSen)
	}

	return nil
}
