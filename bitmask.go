package sparsecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxComponentTypes is the number of distinct component ids a Signature can
// hold.
const MaxComponentTypes = 256

// ComponentID identifies a component type. It is the bit position of that
// type in a Signature. How ids are assigned to types is up to the caller.
type ComponentID uint8

// Signature is the set of component ids carried by every entity of an
// archetype. It is a 256-bit mask, comparable and usable as a map key.
type Signature [4]uint64

// NewSignature returns the signature containing exactly ids.
func NewSignature(ids ...ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s.set(id)
	}
	return s
}

// set enables the bit for id.
func (s *Signature) set(id ComponentID) {
	i := id >> 6 // (id / 64) to find the uint64 index
	o := id & 63 // (id % 64) to find the bit offset
	s[i] |= uint64(1) << uint64(o)
}

// unset disables the bit for id.
func (s *Signature) unset(id ComponentID) {
	i := id >> 6
	o := id & 63
	s[i] &= ^(uint64(1) << uint64(o))
}

// With returns a copy of s with id added.
func (s Signature) With(id ComponentID) Signature {
	s.set(id)
	return s
}

// Without returns a copy of s with id removed.
func (s Signature) Without(id ComponentID) Signature {
	s.unset(id)
	return s
}

// Has reports whether id is in the signature.
func (s Signature) Has(id ComponentID) bool {
	i := id >> 6
	o := id & 63
	return (s[i] & (uint64(1) << uint64(o))) != 0
}

// Contains checks if all the bits set in sub are also set in s.
//
// Parameters:
//   - sub: The signature representing the subset of components to check for.
//
// Returns:
//   - true if s contains all components from sub, false otherwise.
func (s Signature) Contains(sub Signature) bool {
	return (s[0]&sub[0]) == sub[0] &&
		(s[1]&sub[1]) == sub[1] &&
		(s[2]&sub[2]) == sub[2] &&
		(s[3]&sub[3]) == sub[3]
}

// IsEmpty reports whether no component is set.
func (s Signature) IsEmpty() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

// Len returns the number of components in the signature.
func (s Signature) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}

// Components returns the ids in the signature in ascending order.
func (s Signature) Components() []ComponentID {
	ids := make([]ComponentID, 0, s.Len())
	for w, word := range s {
		for word != 0 {
			o := bits.TrailingZeros64(word)
			ids = append(ids, ComponentID(w*64+o))
			word &= word - 1
		}
	}
	return ids
}

// String renders the signature as a sorted id list, e.g. "{0,3,17}".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range s.Components() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte('}')
	return b.String()
}
