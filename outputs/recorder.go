package outputs

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/datarecording"
	"github.com/phytolab/epileaf/sim"
	"github.com/phytolab/epileaf/weather"
)

// Table names used by the recorder.
const (
	TableBladeRecords  = "blade_records"
	TableCanopyRecords = "canopy_records"
)

// A BladeRecord is one row of the per-blade output table.
type BladeRecord struct {
	Date       string
	DegreeDays float64
	Blade      string

	Area            float64
	GreenArea       float64
	SenescedArea    float64
	HealthyArea     float64
	LesionSurface   float64
	GreenLesionArea float64
	Severity        float64
	NecroticArea    float64
	NecrosisPercent float64
	Lesions         int
	DispersalUnits  int
}

// A CanopyRecord is one row of the whole-canopy output table.
type CanopyRecord struct {
	Date       string
	DegreeDays float64

	Area            float64
	GreenArea       float64
	HealthyArea     float64
	LesionSurface   float64
	Severity        float64
	NecrosisPercent float64
	Lesions         int
	DispersalUnits  int
}

// A Recorder snapshots the epidemic every disease interval into the data
// recorder. It also keeps the necrosis history needed by the AUDPC
// post-treatment.
type Recorder struct {
	rec   datarecording.DataRecorder
	model weather.DegreeDayModel

	degreeDays float64

	necrosisHistory []float64
	areaHistory     []float64
}

// NewRecorder creates a recorder writing into rec. The thermal model must
// match the one driving the disease clock so the recorded degree days
// line up with the simulation's own thermal time.
func NewRecorder(
	rec datarecording.DataRecorder,
	model weather.DegreeDayModel,
) *Recorder {
	r := &Recorder{rec: rec, model: model}

	rec.CreateTable(TableBladeRecords, BladeRecord{})
	rec.CreateTable(TableCanopyRecords, CanopyRecord{})

	return r
}

// Record snapshots the store at the end of one disease interval.
func (r *Recorder) Record(s canopy.Store, f *sim.Fire) error {
	temps := f.Slice.Values(weather.ColTemperatureAir)
	hours := f.Slice.Hours() / float64(len(temps))
	for _, temp := range temps {
		r.degreeDays += r.model.Increment(temp, hours)
	}

	date := f.EvalTime().Format(weather.TimeLayout)

	for _, blade := range s.Blades() {
		m := MeasureBladeMetrics(s, blade)
		r.rec.InsertData(TableBladeRecords, BladeRecord{
			Date:            date,
			DegreeDays:      r.degreeDays,
			Blade:           m.Blade,
			Area:            m.Area,
			GreenArea:       m.GreenArea,
			SenescedArea:    m.SenescedArea,
			HealthyArea:     m.HealthyArea,
			LesionSurface:   m.LesionSurface,
			GreenLesionArea: m.GreenLesionArea,
			Severity:        m.Severity,
			NecroticArea:    m.NecroticArea,
			NecrosisPercent: m.NecrosisPercent,
			Lesions:         m.Lesions,
			DispersalUnits:  m.DispersalUnits,
		})
	}

	total := MeasureCanopyMetrics(s)
	r.rec.InsertData(TableCanopyRecords, CanopyRecord{
		Date:            date,
		DegreeDays:      r.degreeDays,
		Area:            total.Area,
		GreenArea:       total.GreenArea,
		HealthyArea:     total.HealthyArea,
		LesionSurface:   total.LesionSurface,
		Severity:        total.Severity,
		NecrosisPercent: total.NecrosisPercent,
		Lesions:         total.Lesions,
		DispersalUnits:  total.DispersalUnits,
	})

	r.necrosisHistory = append(r.necrosisHistory, total.NecrosisPercent)
	r.areaHistory = append(r.areaHistory, total.Area)

	return nil
}

// NormalizedAUDPC returns the area under the necrosis progress curve
// divided by its theoretical maximum (a canopy fully necrotic from
// emergence), in percent. Zero when nothing was recorded.
func (r *Recorder) NormalizedAUDPC() float64 {
	return NormalizedAUDPC(r.necrosisHistory, r.areaHistory)
}

// NormalizedAUDPC integrates the necrosis percentage over recording
// steps by the trapezoid rule and normalizes by the full-necrosis curve
// over the steps where leaf area existed.
func NormalizedAUDPC(necrosis, area []float64) float64 {
	if len(necrosis) < 2 || len(necrosis) != len(area) {
		return 0
	}

	fullNecrosis := make([]float64, len(area))
	for i, a := range area {
		if a > 0 {
			fullNecrosis[i] = 100
		}
	}

	audpc := trapz(necrosis)
	theoretical := trapz(fullNecrosis)
	if theoretical <= 0 {
		return 0
	}

	return 100 * audpc / theoretical
}

func trapz(values []float64) float64 {
	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += (values[i] + values[i-1]) / 2
	}

	return sum
}
