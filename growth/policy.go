// Package growth implements the area-competition engine: the policies
// that divide a blade's limited healthy area among its resident lesions.
//
// All policies follow the same two-phase discipline: the blade's areas
// are measured once, every offer is computed from that snapshot, and only
// then are the offers committed through ControlGrowth. Each active lesion
// receives exactly one ControlGrowth call per tick.
package growth

import (
	"fmt"
	"math"

	"github.com/phytolab/epileaf/canopy"
)

// A Policy arbitrates lesion growth over every blade of the store.
type Policy interface {
	Control(s canopy.Store) error
}

// An InvariantError reports an inconsistent upstream biological state:
// area accounting went negative, or a rationing branch's own assumption
// broke. It is never recovered from; further computation would only
// corrupt results silently.
type InvariantError struct {
	Blade string
	Msg   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("growth: blade %s: %s", e.Blade, e.Msg)
}

// offerPrecision stabilizes iterative floating drift across a season of
// rationing passes.
const offerPrecision = 14

// trueAreaImpacted is the Poisson-occupancy law for overlapping circular
// lesions: n lesions of a mean size dropped on availableArea cover
//
//	availableArea x (1 - exp(-n x meanSize / availableArea))
//
// which is less than the naive n x meanSize because footprints overlap.
func trueAreaImpacted(n, availableArea, meanSize float64) float64 {
	if availableArea <= 0 {
		return 0
	}

	return availableArea *
		(1 - math.Min(1, math.Exp(-n*meanSize/availableArea)))
}

// manageSenescenceBorder reconciles the senescence bookkeeping of a blade
// whose lesions already cover more than its green area. The target
// senesced length is redistributed across the blade's elements from the
// tip inward, preserving element order, and every lesion is asked to
// recompute its senescence response.
//
// r is the green-to-occupied ratio; the blade's living length shrinks to
// r times its current green length.
func manageSenescenceBorder(s canopy.Store, blade string, r float64) {
	leaves := s.LeavesOf(blade)
	if len(leaves) == 0 {
		return
	}

	senLens := make([]float64, len(leaves))
	totLens := make([]float64, len(leaves))
	totalLen, senLen := 0.0, 0.0

	for i, id := range leaves {
		leaf := s.Leaf(id)
		senLens[i] = leaf.SenescedLength
		totLens[i] = leaf.Length
		totalLen += leaf.Length
		senLen += leaf.SenescedLength
	}

	newLength := totalLen - r*(totalLen-senLen)
	for i := len(leaves) - 1; i >= 0 && newLength > 0; i-- {
		l := math.Min(totLens[i], newLength)
		senLens[i] = l
		newLength -= l
	}

	for i, id := range leaves {
		leaf := s.Leaf(id)
		leaf.SenescedLength = senLens[i]

		for _, les := range leaf.Lesions {
			les.SenescenceResponse(senLens[i])
		}
	}
}
