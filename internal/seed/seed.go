// Package seed owns the process-wide random seed. Nothing is seeded
// implicitly: the entrypoint calls Init exactly once, and components that need
// randomness derive their own generator with New.
package seed

import (
	"math/rand/v2"
	"sync"
)

// Default is the seed used when the caller does not choose one.
const Default uint64 = 123

// Stream layout: the top byte names the role, the next 24 bits the
// component's seed_offset, and the low 32 bits a slot within the component.
const (
	RoleData  uint64 = 1 << 56
	RoleModel uint64 = 2 << 56

	// MaxOffset is the largest seed_offset a component may be configured with.
	MaxOffset uint64 = 1<<24 - 1
	slotMask  uint64 = 1<<32 - 1
)

var (
	mu      sync.Mutex
	current = Default
	set     bool
)

// Init fixes the process seed. It may be called again (tests do), in which
// case the latest value wins for generators created afterwards.
func Init(seed uint64) {
	mu.Lock()
	defer mu.Unlock()
	current = seed
	set = true
}

// Value reports the active seed and whether Init has been called.
func Value() (uint64, bool) {
	mu.Lock()
	defer mu.Unlock()
	return current, set
}

// New returns a generator derived from the process seed and stream. Distinct
// streams give independent sequences; the same (seed, stream) pair always
// yields the same sequence.
func New(stream uint64) *rand.Rand {
	s, _ := Value()
	return rand.New(rand.NewPCG(s, stream))
}

// Stream composes a stream id. Ids with different roles never coincide.
func Stream(role, offset, slot uint64) uint64 {
	return role | (offset&MaxOffset)<<32 | slot&slotMask
}
