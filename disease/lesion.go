// Package disease defines the contracts between the allocation engine and
// the fungal biological models. The engine arbitrates leaf area among
// lesions and filters dispersal units; everything the pathogen does
// internally stays behind these interfaces.
package disease

// LesionStatus is a physiological stage. The ordinal order matters: the
// priority growth policy serves lesions at or beyond StatusChlorotic
// before the others.
type LesionStatus int

// The stages a lesion walks through.
const (
	StatusIncubating LesionStatus = iota
	StatusChlorotic
	StatusNecrotic
	StatusSporulating
	StatusEmpty
)

func (s LesionStatus) String() string {
	switch s {
	case StatusIncubating:
		return "incubating"
	case StatusChlorotic:
		return "chlorotic"
	case StatusNecrotic:
		return "necrotic"
	case StatusSporulating:
		return "sporulating"
	case StatusEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// A Lesion is one fungal colony (or colony group) resident on a leaf. The
// biological model owns its internal state; the growth allocator only
// reads the exposed quantities and grants area through ControlGrowth.
type Lesion interface {
	ID() string

	// Kind names the fungus. The dual-fungus policy uses it to decide
	// which lesions are always prioritized.
	Kind() string

	Status() LesionStatus

	// Surface is the area currently occupied, senescent tissue included.
	Surface() float64

	// SurfaceNonSenescent is the occupied area still on living tissue.
	SurfaceNonSenescent() float64

	// PotentialSurface is the area the lesion would occupy unconstrained.
	PotentialSurface() float64

	// GrowthDemand is the area requested this tick. The allocator never
	// writes it.
	GrowthDemand() float64

	// NonSenescentCount is the number of individual lesions in this
	// group that are not senescent. Ungrouped lesions report 0 or 1.
	NonSenescentCount() float64

	IsSenescent() bool
	IsActive() bool

	// ControlGrowth commits the granted area increment for this tick.
	// The allocator calls it exactly once per tick per lesion.
	ControlGrowth(offer float64)

	// SenescenceResponse lets the lesion react to the senescence front
	// reaching the given length on its leaf.
	SenescenceResponse(senescedLength float64)
}
