// Package canopy holds the leaf-level view of the plant stand: the store
// of leaf units grouped into blades, and the surface accounting that
// turns raw geometric attributes into the healthy area contested by
// lesions.
package canopy

import (
	"fmt"

	"github.com/phytolab/epileaf/disease"
)

// A LeafID identifies one leaf sub-element.
type LeafID string

// A LeafUnit is one leaf sub-element: the smallest tissue patch carrying
// its own area bookkeeping and its own resident lesion and dispersal-unit
// collections. A LeafUnit is a view over shared collections, not an
// exclusive owner: collaborators mutate the same slices.
type LeafUnit struct {
	ID LeafID

	// Area is the total surface of the element. GreenArea never exceeds
	// it.
	Area      float64
	GreenArea float64

	// Length and SenescedLength position the senescence front along the
	// element.
	Length         float64
	SenescedLength float64

	Lesions        []disease.Lesion
	DispersalUnits []disease.DispersalUnit
}

// A Store is the capability interface over the canopy graph: blade
// membership and leaf access. The reconstruction model that builds and
// grows the canopy lives behind it.
type Store interface {
	// Blades returns blade identifiers in a stable order.
	Blades() []string

	// LeavesOf returns the leaf elements of a blade, base to tip. The
	// order is significant: senescence-border reconciliation walks it
	// from the tip inward.
	LeavesOf(blade string) []LeafID

	// Leaf returns the leaf unit with the given id.
	Leaf(id LeafID) *LeafUnit
}

// A MemStore is the in-memory Store used by simulations and tests.
type MemStore struct {
	blades    []string
	bladeLeaf map[string][]LeafID
	leaves    map[LeafID]*LeafUnit
	leafOrder []LeafID
	leafBlade map[LeafID]string
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		bladeLeaf: make(map[string][]LeafID),
		leaves:    make(map[LeafID]*LeafUnit),
		leafBlade: make(map[LeafID]string),
	}
}

// AddLeaf attaches a leaf unit to a blade. Leaves must be added base to
// tip. Adding a duplicate leaf id panics.
func (s *MemStore) AddLeaf(blade string, leaf *LeafUnit) {
	if _, dup := s.leaves[leaf.ID]; dup {
		panic(fmt.Sprintf("canopy: leaf %s already registered", leaf.ID))
	}

	if _, ok := s.bladeLeaf[blade]; !ok {
		s.blades = append(s.blades, blade)
	}

	s.bladeLeaf[blade] = append(s.bladeLeaf[blade], leaf.ID)
	s.leaves[leaf.ID] = leaf
	s.leafOrder = append(s.leafOrder, leaf.ID)
	s.leafBlade[leaf.ID] = blade
}

// Blades returns blade ids in insertion order.
func (s *MemStore) Blades() []string {
	return s.blades
}

// LeavesOf returns the leaf ids of a blade, base to tip.
func (s *MemStore) LeavesOf(blade string) []LeafID {
	return s.bladeLeaf[blade]
}

// Leaf returns the leaf unit with the given id, or nil.
func (s *MemStore) Leaf(id LeafID) *LeafUnit {
	return s.leaves[id]
}

// Leaves returns every leaf id in insertion order.
func (s *MemStore) Leaves() []LeafID {
	return s.leafOrder
}

// BladeOf returns the blade a leaf belongs to.
func (s *MemStore) BladeOf(id LeafID) string {
	return s.leafBlade[id]
}
