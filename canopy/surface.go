package canopy

import (
	"github.com/phytolab/epileaf/disease"
	"github.com/phytolab/epileaf/util"
)

// A BladeSurface is the per-blade area snapshot the allocation engine
// works from. It is measured once per tick per blade, before any lesion
// mutation, so no lesion observes a partially updated sibling.
type BladeSurface struct {
	Area      float64
	GreenArea float64

	// SenescedArea derives from the senescence front position:
	// area x senesced_length / total_length per element.
	SenescedArea float64

	// LesionSurface is the summed surface of the resident lesions,
	// senescent tissue included.
	LesionSurface float64

	// GreenLesionArea is the lesion surface on living tissue. Lesions
	// cannot occupy already-senesced tissue twice.
	GreenLesionArea float64

	// HealthyArea is the contested resource: neither senesced nor
	// occupied, clamped to zero and rounded to 10 decimals.
	HealthyArea float64

	Lesions int
}

// MeasureBlade computes the area snapshot of one blade.
func MeasureBlade(s Store, blade string) BladeSurface {
	var b BladeSurface

	for _, id := range s.LeavesOf(blade) {
		leaf := s.Leaf(id)
		if leaf == nil {
			continue
		}

		b.Area += leaf.Area
		b.GreenArea += leaf.GreenArea
		b.SenescedArea += leafSenescedArea(leaf)

		for _, l := range leaf.Lesions {
			if !l.IsActive() {
				continue
			}
			b.LesionSurface += l.Surface()
			b.Lesions++
		}
	}

	ratioGreen := 0.0
	if b.Area > 0 {
		ratioGreen = min(1, b.GreenArea/b.Area)
	}

	if b.SenescedArea > b.LesionSurface {
		b.GreenLesionArea = b.LesionSurface * ratioGreen
	} else {
		b.GreenLesionArea = max(0, b.LesionSurface-b.SenescedArea)
	}

	b.HealthyArea = max(0,
		util.Round(b.Area-(b.SenescedArea+b.GreenLesionArea), 10))

	return b
}

func leafSenescedArea(leaf *LeafUnit) float64 {
	if leaf.Length <= 0 {
		return 0
	}

	return leaf.Area * leaf.SenescedLength / leaf.Length
}

// ActiveLesions collects the active lesions of a blade, leaf by leaf in
// base-to-tip order.
func ActiveLesions(s Store, blade string) []LesionRef {
	var out []LesionRef

	for _, id := range s.LeavesOf(blade) {
		leaf := s.Leaf(id)
		if leaf == nil {
			continue
		}

		for _, l := range leaf.Lesions {
			if l.IsActive() {
				out = append(out, LesionRef{Leaf: id, Lesion: l})
			}
		}
	}

	return out
}

// A LesionRef pairs a lesion with the leaf element it sits on.
type LesionRef struct {
	Leaf   LeafID
	Lesion disease.Lesion
}
