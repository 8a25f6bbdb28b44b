package disease

// DUStatus is the placement state of a dispersal unit.
type DUStatus int

// A dispersal unit is emitted by dispersal or contamination, then either
// deposited on infectable tissue or discarded.
const (
	StatusEmitted DUStatus = iota
	StatusDeposited
)

func (s DUStatus) String() string {
	if s == StatusEmitted {
		return "emitted"
	}
	return "deposited"
}

// GroupingMode tells how dispersal units are counted on a leaf.
type GroupingMode int

const (
	// Individual units carry a count of one each; acceptance keeps a
	// prefix of the unit list.
	Individual GroupingMode = iota

	// Grouped units aggregate a whole cohort into one object whose Count
	// field is rewritten by acceptance.
	Grouped
)

// A DispersalUnit is a spore-carrying packet that may or may not reach
// infectable tissue. It belongs to exactly one leaf once deposited.
type DispersalUnit interface {
	ID() string
	Status() DUStatus
	SetStatus(s DUStatus)
	IsActive() bool

	// Count is the number of units this object stands for. Individual
	// units report 1.
	Count() int

	// SetCount rewrites the aggregate count. Only meaningful in grouped
	// mode.
	SetCount(n int)
}
