package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs for lesions, dispersal units, and runs.
type IDGenerator interface {
	// Generate an ID.
	Generate() string
}

// NewSequentialIDGenerator returns a generator producing deterministic
// sequential IDs. Simulations that must be reproducible run-to-run use
// this one.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator returns a generator producing globally unique IDs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(n, 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
