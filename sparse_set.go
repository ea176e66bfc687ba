package sparsecs

const tombstone = -1

// sparseIndex maps an entity index to a dense row. Absent entries hold
// tombstone.
type sparseIndex []int

func (s sparseIndex) get(index uint32) (int, bool) {
	if int(index) >= len(s) {
		return 0, false
	}
	row := s[index]
	if row == tombstone {
		return 0, false
	}
	return row, true
}

func (s *sparseIndex) set(index uint32, row int) {
	invariant(row != tombstone, "row cannot be tombstone")
	if int(index) >= len(*s) { // grow by doubling or to index+1, whichever is larger
		oldLen := len(*s)
		newLen := max(oldLen*2, int(index)+1)
		grown := make(sparseIndex, newLen)
		copy(grown, *s)
		for i := oldLen; i < newLen; i++ {
			grown[i] = tombstone
		}
		*s = grown
	}
	(*s)[index] = row
}

func (s sparseIndex) clear(index uint32) {
	if int(index) < len(s) {
		s[index] = tombstone
	}
}

// SparseSet stores the values of one component for the entities of one
// archetype. Values live in a dense array indexed by row and a sparse index
// maps entities to rows, giving O(1) insert, remove and lookup while keeping
// rows 0..Len()-1 contiguous.
//
// Backing storage never shrinks; Remove moves the last row into the freed one
// and truncates the logical count, so the slots above Len() are reused by
// later inserts.
type SparseSet struct {
	dense     []EntityID
	data      []any
	sparse    sparseIndex
	count     int
	component ComponentID
}

// NewSparseSet creates an empty set for the given component.
func NewSparseSet(component ComponentID) *SparseSet {
	return &SparseSet{component: component}
}

// Component returns the component id the set stores.
func (s *SparseSet) Component() ComponentID { return s.component }

// Len returns the number of occupied rows.
func (s *SparseSet) Len() int { return s.count }

// Has reports whether e has a row in the set.
func (s *SparseSet) Has(e EntityID) bool {
	row, ok := s.sparse.get(e.Index())
	return ok && s.dense[row] == e
}

// Insert appends e with value v at the next free row. e must not already be
// present.
func (s *SparseSet) Insert(e EntityID, v any) {
	_, present := s.sparse.get(e.Index())
	invariant(!present, "entity %s already stored for component %d", e, s.component)
	row := s.count
	if row < len(s.dense) {
		s.dense[row] = e
		s.data[row] = v
	} else {
		s.dense = append(s.dense, e)
		s.data = append(s.data, v)
	}
	s.sparse.set(e.Index(), row)
	s.count++
}

// Remove deletes e from the set and returns its value. The last occupied row
// is moved into the freed row so storage stays packed.
func (s *SparseSet) Remove(e EntityID) (any, bool) {
	row, ok := s.sparse.get(e.Index())
	if !ok || s.dense[row] != e {
		return nil, false
	}
	v := s.data[row]
	last := s.count - 1
	if row < last {
		moved := s.dense[last]
		s.dense[row] = moved
		s.data[row] = s.data[last]
		s.sparse.set(moved.Index(), row)
	}
	s.dense[last] = 0
	s.data[last] = nil
	s.sparse.clear(e.Index())
	s.count--
	return v, true
}

// Get returns the value stored for e.
func (s *SparseSet) Get(e EntityID) (any, bool) {
	row, ok := s.sparse.get(e.Index())
	if !ok || s.dense[row] != e {
		return nil, false
	}
	return s.data[row], true
}

// Set overwrites the value stored for e in place. It returns false if e has no
// row.
func (s *SparseSet) Set(e EntityID, v any) bool {
	row, ok := s.sparse.get(e.Index())
	if !ok || s.dense[row] != e {
		return false
	}
	s.data[row] = v
	return true
}

// Each calls fn for every row in dense order until fn returns false. fn must
// not insert into or remove from the set.
func (s *SparseSet) Each(fn func(EntityID, any) bool) {
	for row := 0; row < s.count; row++ {
		if !fn(s.dense[row], s.data[row]) {
			return
		}
	}
}

// Reset drops every row but keeps the backing storage.
func (s *SparseSet) Reset() {
	for row := 0; row < s.count; row++ {
		s.sparse.clear(s.dense[row].Index())
		s.dense[row] = 0
		s.data[row] = nil
	}
	s.count = 0
}

// row returns the dense row of e; used by consistency checks.
func (s *SparseSet) row(e EntityID) (int, bool) {
	row, ok := s.sparse.get(e.Index())
	if !ok || s.dense[row] != e {
		return 0, false
	}
	return row, true
}
