package sparsecs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntity is returned when an EntityID no longer refers to a live
	// entity.
	ErrInvalidEntity = errors.New("sparsecs: invalid entity")
	// ErrAllocatorExhausted is returned by Spawn when the index space is full.
	ErrAllocatorExhausted = errors.New("sparsecs: entity allocator exhausted")
	// ErrComponentNotFound is returned when reading a component the entity
	// does not carry.
	ErrComponentNotFound = errors.New("sparsecs: component not found")
	// ErrComponentType is returned by Get when the stored value is not of the
	// requested type.
	ErrComponentType = errors.New("sparsecs: component type mismatch")
)

// invariant panics when cond is false. It guards the dense/sparse bookkeeping.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("sparsecs: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
