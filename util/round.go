// Package util provides small numeric helpers shared by the simulation
// packages.
package util

import "math"

// Round rounds v to the given number of decimal places.
//
// Area bookkeeping is iterated thousands of times over a season, so the
// allocation code rounds intermediate results at fixed precisions to keep
// floating noise from accumulating into spurious branch decisions.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
