// Package operation provides stock-distribution helpers: seeding a
// canopy with an initial population of dispersal units or lesions.
package operation

import (
	"github.com/phytolab/epileaf/canopy"
	"github.com/phytolab/epileaf/disease"
)

// DistributeDispersalUnits spreads n dispersal units over the store's
// leaves in round-robin order, deterministically. The factory builds one
// unit per slot; in grouped mode callers typically distribute one cohort
// per leaf instead.
func DistributeDispersalUnits(
	s *canopy.MemStore,
	n int,
	factory func() disease.DispersalUnit,
) {
	leaves := s.Leaves()
	if len(leaves) == 0 || n <= 0 {
		return
	}

	for i := 0; i < n; i++ {
		leaf := s.Leaf(leaves[i%len(leaves)])
		leaf.DispersalUnits = append(leaf.DispersalUnits, factory())
	}
}

// DistributeLesions spreads n lesions over the store's leaves in
// round-robin order.
func DistributeLesions(
	s *canopy.MemStore,
	n int,
	factory func(leaf canopy.LeafID) disease.Lesion,
) {
	leaves := s.Leaves()
	if len(leaves) == 0 || n <= 0 {
		return
	}

	for i := 0; i < n; i++ {
		id := leaves[i%len(leaves)]
		leaf := s.Leaf(id)
		leaf.Lesions = append(leaf.Lesions, factory(id))
	}
}

// CountLesions returns the number of lesion objects in the store.
func CountLesions(s canopy.Store) int {
	n := 0
	for _, blade := range s.Blades() {
		for _, id := range s.LeavesOf(blade) {
			n += len(s.Leaf(id).Lesions)
		}
	}

	return n
}

// CountDispersalUnits returns the total dispersal-unit count in the
// store, aggregates expanded.
func CountDispersalUnits(s canopy.Store) int {
	n := 0
	for _, blade := range s.Blades() {
		for _, id := range s.LeavesOf(blade) {
			for _, du := range s.Leaf(id).DispersalUnits {
				n += du.Count()
			}
		}
	}

	return n
}
