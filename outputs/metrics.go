// Package outputs computes epidemic metrics from the canopy state and
// records them per disease interval.
package outputs

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/disease"
)

// BladeMetrics is the per-blade health snapshot of one recording date.
type BladeMetrics struct {
	Blade string

	Area            float64
	GreenArea       float64
	SenescedArea    float64
	HealthyArea     float64
	LesionSurface   float64
	GreenLesionArea float64

	// Severity is the diseased fraction of the blade in percent.
	Severity float64

	// NecroticArea is the summed surface of lesions at or beyond the
	// necrotic stage.
	NecroticArea float64

	// NecrosisPercent is the necrotic fraction of the blade in percent.
	NecrosisPercent float64

	Lesions        int
	DispersalUnits int
}

// MeasureBladeMetrics computes the metrics of one blade.
func MeasureBladeMetrics(s canopy.Store, blade string) BladeMetrics {
	surf := canopy.MeasureBlade(s, blade)

	m := BladeMetrics{
		Blade:           blade,
		Area:            surf.Area,
		GreenArea:       surf.GreenArea,
		SenescedArea:    surf.SenescedArea,
		HealthyArea:     surf.HealthyArea,
		LesionSurface:   surf.LesionSurface,
		GreenLesionArea: surf.GreenLesionArea,
		Lesions:         surf.Lesions,
	}

	for _, id := range s.LeavesOf(blade) {
		leaf := s.Leaf(id)
		if leaf == nil {
			continue
		}

		for _, du := range leaf.DispersalUnits {
			if du.IsActive() {
				m.DispersalUnits += du.Count()
			}
		}

		for _, l := range leaf.Lesions {
			if l.IsActive() && l.Status() >= disease.StatusNecrotic {
				m.NecroticArea += l.Surface()
			}
		}
	}

	if m.Area > 0 {
		m.Severity = clampPercent(100 * m.LesionSurface / m.Area)
		m.NecrosisPercent = clampPercent(100 * m.NecroticArea / m.Area)
	}

	return m
}

// MeasureCanopyMetrics aggregates blade metrics over the whole store.
func MeasureCanopyMetrics(s canopy.Store) BladeMetrics {
	total := BladeMetrics{Blade: "canopy"}

	for _, blade := range s.Blades() {
		m := MeasureBladeMetrics(s, blade)

		total.Area += m.Area
		total.GreenArea += m.GreenArea
		total.SenescedArea += m.SenescedArea
		total.HealthyArea += m.HealthyArea
		total.LesionSurface += m.LesionSurface
		total.GreenLesionArea += m.GreenLesionArea
		total.NecroticArea += m.NecroticArea
		total.Lesions += m.Lesions
		total.DispersalUnits += m.DispersalUnits
	}

	if total.Area > 0 {
		total.Severity = clampPercent(100 * total.LesionSurface / total.Area)
		total.NecrosisPercent = clampPercent(
			100 * total.NecroticArea / total.Area)
	}

	return total
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}
