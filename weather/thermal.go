package weather

// A DegreeDayModel converts hourly air temperature into thermal time. One
// degree day is accumulated for every 24 degree-hours above the base
// temperature.
type DegreeDayModel struct {
	TBase float64
}

// Increment returns the degree days accumulated over one row of the
// master sequence. Temperatures below the base contribute nothing.
func (m DegreeDayModel) Increment(temperature, hours float64) float64 {
	if temperature <= m.TBase {
		return 0
	}

	return (temperature - m.TBase) * hours / 24.0
}

// CumulativeDegreeDays derives the running thermal-time column of a table.
func (m DegreeDayModel) CumulativeDegreeDays(t *Table) []float64 {
	out := make([]float64, t.Len())

	sum := 0.0
	for i := 0; i < t.Len(); i++ {
		sum += m.Increment(t.Value(ColTemperatureAir, i), t.StepHours(i))
		out[i] = sum
	}

	return out
}
