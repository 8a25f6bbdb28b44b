// Package infection filters freshly arrived dispersal units: only the
// fraction that lands on tissue capable of being infected is allowed to
// proceed.
package infection

import (
	"math"

	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/disease"
	"github.com/phytolab/epileaf/util"
)

// A Controller applies the quantized probabilistic acceptance rule per
// blade. It is deterministic: the acceptance count is a floor of the
// expected value, not a per-unit random draw.
type Controller struct {
	// Mode tells whether dispersal units are grouped cohorts or
	// individual units.
	Mode disease.GroupingMode
}

// Control decides, for every blade, which newly emitted dispersal units
// may proceed to infect. Already-deposited units are never touched.
func (c Controller) Control(s canopy.Store) error {
	for _, blade := range s.Blades() {
		c.controlBlade(s, blade)
	}

	return nil
}

func (c Controller) controlBlade(s canopy.Store, blade string) {
	leaves := s.LeavesOf(blade)

	area, greenArea, lesionSurface := 0.0, 0.0, 0.0
	for _, id := range leaves {
		leaf := s.Leaf(id)
		if leaf == nil {
			continue
		}

		area += leaf.Area
		greenArea += leaf.GreenArea
		for _, l := range leaf.Lesions {
			lesionSurface += l.Surface()
		}
	}

	// Surfaces are quantized to 3 decimals before the ratios so floating
	// noise cannot produce spurious acceptance on an effectively full
	// leaf.
	ratioLesion, ratioGreen := 0.0, 0.0
	if util.Round(area, 3) > 0 {
		ratioLesion = min(1, util.Round(lesionSurface, 3)/util.Round(area, 3))
		ratioGreen = min(1, util.Round(greenArea, 3)/util.Round(area, 3))
	}

	if util.Round(ratioGreen*(1-ratioLesion), 10) == 0 {
		// No infectable tissue left on this blade.
		for _, id := range leaves {
			if leaf := s.Leaf(id); leaf != nil {
				leaf.DispersalUnits = nil
			}
		}
		return
	}

	for _, id := range leaves {
		leaf := s.Leaf(id)
		if leaf == nil || len(leaf.DispersalUnits) == 0 {
			continue
		}

		c.placeOnLeaf(leaf, ratioGreen, ratioLesion)
	}
}

func (c Controller) placeOnLeaf(
	leaf *canopy.LeafUnit,
	ratioGreen, ratioLesion float64,
) {
	var deposited, emitted []disease.DispersalUnit
	for _, du := range leaf.DispersalUnits {
		if !du.IsActive() {
			continue
		}

		switch du.Status() {
		case disease.StatusDeposited:
			deposited = append(deposited, du)
		case disease.StatusEmitted:
			emitted = append(emitted, du)
		}
	}

	if len(emitted) == 0 {
		leaf.DispersalUnits = deposited
		return
	}

	total := 0
	if c.Mode == disease.Grouped {
		total = emitted[0].Count()
	} else {
		total = len(emitted)
	}

	nbOnHealthy := int(math.Floor(
		float64(total) * ratioGreen * (1 - ratioLesion)))

	if nbOnHealthy <= 0 {
		leaf.DispersalUnits = deposited
		return
	}

	var accepted []disease.DispersalUnit
	if c.Mode == disease.Grouped {
		emitted[0].SetCount(nbOnHealthy)
		accepted = emitted
	} else {
		accepted = emitted[:nbOnHealthy]
	}

	for _, du := range accepted {
		du.SetStatus(disease.StatusDeposited)
	}

	leaf.DispersalUnits = append(deposited, accepted...)
}
