// Package weather holds the hourly weather table that drives the
// simulation clocks, together with the thermal-time model derived from it.
package weather

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ColTemperatureAir is the column every table must carry. The thermal
// clocks cannot run without it.
const ColTemperatureAir = "temperature_air"

// TimeLayout is the timestamp format used in weather CSV files.
const TimeLayout = "2006-01-02 15:04:05"

// A Table is a time-indexed table of weather conditions. The row index is
// the master sequence of the simulation: every clock advances one row at a
// time.
type Table struct {
	times []time.Time
	cols  map[string][]float64
}

// NewTable creates a table from a sorted timestamp index and a set of
// equally sized columns.
func NewTable(times []time.Time, cols map[string][]float64) (*Table, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("weather: empty time index")
	}

	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf(
				"weather: time index not strictly increasing at row %d", i)
		}
	}

	for name, col := range cols {
		if len(col) != len(times) {
			return nil, fmt.Errorf(
				"weather: column %s has %d rows, index has %d",
				name, len(col), len(times))
		}
	}

	if _, ok := cols[ColTemperatureAir]; !ok {
		return nil, fmt.Errorf(
			"weather: missing required column %s", ColTemperatureAir)
	}

	return &Table{times: times, cols: cols}, nil
}

// LoadCSV reads an hourly weather file. The first column must be named
// "timestamp"; every other column is parsed as float64.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("weather: %s has no data rows", path)
	}

	header := records[0]
	if header[0] != "timestamp" {
		return nil, fmt.Errorf(
			"weather: first column of %s must be timestamp, got %s",
			path, header[0])
	}

	times := make([]time.Time, 0, len(records)-1)
	cols := make(map[string][]float64, len(header)-1)
	for _, name := range header[1:] {
		cols[name] = make([]float64, 0, len(records)-1)
	}

	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("weather: row %d has %d fields, want %d",
				i+1, len(rec), len(header))
		}

		t, err := time.Parse(TimeLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("weather: row %d: %w", i+1, err)
		}
		times = append(times, t)

		for j, name := range header[1:] {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("weather: row %d, column %s: %w",
					i+1, name, err)
			}
			cols[name] = append(cols[name], v)
		}
	}

	return NewTable(times, cols)
}

// Len returns the number of rows in the master sequence.
func (t *Table) Len() int {
	return len(t.times)
}

// Time returns the timestamp of row i.
func (t *Table) Time(i int) time.Time {
	return t.times[i]
}

// Value returns the value of the named column at row i.
func (t *Table) Value(name string, i int) float64 {
	col, ok := t.cols[name]
	if !ok {
		panic(fmt.Sprintf("weather: unknown column %s", name))
	}

	return col[i]
}

// HasColumn tells if the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// StepHours returns the wall-clock hours between row i and the previous
// row. The first row counts as one step of the same length as the second,
// so a uniform hourly series accumulates exactly its own span.
func (t *Table) StepHours(i int) float64 {
	if i == 0 {
		if len(t.times) > 1 {
			return t.times[1].Sub(t.times[0]).Hours()
		}
		return 1
	}

	return t.times[i].Sub(t.times[i-1]).Hours()
}

// Slice returns a view over rows [start, end).
func (t *Table) Slice(start, end int) Slice {
	if start < 0 || end > len(t.times) || start >= end {
		panic(fmt.Sprintf("weather: invalid slice [%d, %d)", start, end))
	}

	return Slice{table: t, start: start, end: end}
}

// A Slice is a contiguous view over a Table, spanning the rows aggregated
// between two clock fires.
type Slice struct {
	table *Table
	start int
	end   int
}

// Len returns the number of rows in the slice.
func (s Slice) Len() int {
	return s.end - s.start
}

// First returns the timestamp of the first row of the slice.
func (s Slice) First() time.Time {
	return s.table.Time(s.start)
}

// Last returns the timestamp of the last row of the slice.
func (s Slice) Last() time.Time {
	return s.table.Time(s.end - 1)
}

// Values returns a copy of the named column restricted to the slice.
func (s Slice) Values(name string) []float64 {
	col, ok := s.table.cols[name]
	if !ok {
		panic(fmt.Sprintf("weather: unknown column %s", name))
	}

	out := make([]float64, s.end-s.start)
	copy(out, col[s.start:s.end])

	return out
}

// Hours returns the wall-clock hours spanned by the slice.
func (s Slice) Hours() float64 {
	h := 0.0
	for i := s.start; i < s.end; i++ {
		h += s.table.StepHours(i)
	}

	return h
}
