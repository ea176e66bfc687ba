package sparsecs

import (
	"fmt"
	"math"
)

// EntityID is an opaque handle for an entity. The low 32 bits hold the slot
// index and the high 32 bits hold the generation of that slot at the time the
// handle was issued.
type EntityID uint64

// NewEntityID packs an index and a generation into an EntityID.
func NewEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot number of the entity.
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation returns the recycle counter of the slot when id was issued.
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

func (id EntityID) String() string {
	return fmt.Sprintf("Entity(%d:%d)", id.Index(), id.Generation())
}

// freeSlot is a slot waiting on the free list together with the generation it
// had when it was freed.
type freeSlot struct {
	index      uint32
	generation uint32
}

// EntityAllocator issues and recycles entity identifiers. A recycled slot has
// its generation bumped when it is reissued, not when it is freed.
type EntityAllocator struct {
	generations []uint32   // recorded generation per issued slot
	free        []freeSlot // stack of recycled slots
	freed       []bool     // true while the slot sits on the free list
	maxEntities uint32
	live        int
}

// NewEntityAllocator creates an allocator with room for capacity slots before
// its tables grow. maxEntities bounds the index space; zero means the full
// 32-bit range.
func NewEntityAllocator(capacity int, maxEntities uint32) *EntityAllocator {
	if maxEntities == 0 {
		maxEntities = math.MaxUint32
	}
	return &EntityAllocator{
		generations: make([]uint32, 0, capacity),
		freed:       make([]bool, 0, capacity),
		free:        make([]freeSlot, 0, capacity/4),
		maxEntities: maxEntities,
	}
}

// Allocate returns a new entity identifier, reusing a freed slot when one is
// available.
//
// Returns:
//   - The encoded identifier.
//   - ErrAllocatorExhausted if every index is in use and nothing can be recycled.
func (a *EntityAllocator) Allocate() (EntityID, error) {
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		slot.generation++
		a.generations[slot.index] = slot.generation
		a.freed[slot.index] = false
		a.live++
		return NewEntityID(slot.index, slot.generation), nil
	}
	next := len(a.generations)
	if uint64(next) >= uint64(a.maxEntities) {
		return 0, ErrAllocatorExhausted
	}
	a.generations = append(a.generations, 0)
	a.freed = append(a.freed, false)
	a.live++
	return NewEntityID(uint32(next), 0), nil
}

// Free returns a slot to the free list with its current generation. Freeing a
// slot that is not issued or is already free does nothing.
func (a *EntityAllocator) Free(index uint32) {
	if int(index) >= len(a.generations) || a.freed[index] {
		return
	}
	a.freed[index] = true
	a.live--
	gen := a.generations[index]
	if gen == math.MaxUint32 {
		// reissuing would wrap the generation, so the slot is retired
		return
	}
	a.free = append(a.free, freeSlot{index: index, generation: gen})
}

// IsStructurallyValid reports whether the generation carried by id matches
// the generation recorded for its slot. A freed slot that has not been
// reissued yet still passes this check; use IsLive to exclude it.
func (a *EntityAllocator) IsStructurallyValid(id EntityID) bool {
	idx := id.Index()
	if int(idx) >= len(a.generations) {
		return false
	}
	return a.generations[idx] == id.Generation()
}

// IsLive reports whether id is structurally valid and its slot has not been
// freed since.
func (a *EntityAllocator) IsLive(id EntityID) bool {
	return a.IsStructurallyValid(id) && !a.freed[id.Index()]
}

// Len returns the number of live entities.
func (a *EntityAllocator) Len() int { return a.live }

// Cap returns the number of slots issued so far.
func (a *EntityAllocator) Cap() int { return len(a.generations) }

// each calls fn for every live identifier in index order.
func (a *EntityAllocator) each(fn func(EntityID)) {
	for i, gen := range a.generations {
		if a.freed[i] {
			continue
		}
		fn(NewEntityID(uint32(i), gen))
	}
}
