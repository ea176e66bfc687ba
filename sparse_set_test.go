package sparsecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPacked asserts that rows 0..Len()-1 are occupied and that the sparse
// index points back at every one of them.
func checkPacked(t *testing.T, s *SparseSet) {
	t.Helper()
	for r := 0; r < s.count; r++ {
		e := s.dense[r]
		row, ok := s.sparse.get(e.Index())
		require.True(t, ok, "row %d entity %s has no sparse entry", r, e)
		require.Equal(t, r, row, "sparse[dense[%d]] != %d", r, r)
	}
	for r := s.count; r < len(s.dense); r++ {
		require.Zero(t, s.dense[r], "row %d above count not cleared", r)
		require.Nil(t, s.data[r], "row %d above count still holds a value", r)
	}
}

// go test -run ^TestSparseSetInsertGet$ . -count 1
func TestSparseSetInsertGet(t *testing.T) {
	s := NewSparseSet(3)
	assert.Equal(t, ComponentID(3), s.Component())

	e1, e2 := NewEntityID(10, 0), NewEntityID(2, 1)
	s.Insert(e1, "a")
	s.Insert(e2, "b")
	assert.Equal(t, 2, s.Len())

	v, ok := s.Get(e1)
	require.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = s.Get(e2)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	assert.True(t, s.Has(e1))
	assert.False(t, s.Has(NewEntityID(10, 1)), "same index, other generation")
	assert.False(t, s.Has(NewEntityID(999, 0)))
	checkPacked(t, s)
}

// go test -run ^TestSparseSetSet$ . -count 1
func TestSparseSetSet(t *testing.T) {
	s := NewSparseSet(0)
	e := NewEntityID(1, 0)
	assert.False(t, s.Set(e, 1))
	s.Insert(e, 1)
	assert.True(t, s.Set(e, 2))
	v, _ := s.Get(e)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Len())
}

// go test -run ^TestSparseSetRemoveSwapsLast$ . -count 1
func TestSparseSetRemoveSwapsLast(t *testing.T) {
	s := NewSparseSet(0)
	ids := []EntityID{NewEntityID(0, 0), NewEntityID(1, 0), NewEntityID(2, 0), NewEntityID(3, 0)}
	for i, e := range ids {
		s.Insert(e, i)
	}

	v, ok := s.Remove(ids[1])
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 3, s.Len())
	// the last row moved into the hole
	assert.Equal(t, ids[3], s.dense[1])
	assert.Equal(t, 3, s.data[1])
	checkPacked(t, s)

	_, ok = s.Remove(ids[1])
	assert.False(t, ok, "second remove")

	// removing the last row needs no swap
	_, ok = s.Remove(ids[3])
	require.True(t, ok)
	assert.Equal(t, []EntityID{ids[0], ids[2]}, s.dense[:s.Len()])
	checkPacked(t, s)
}

// go test -run ^TestSparseSetReusesStorage$ . -count 1
func TestSparseSetReusesStorage(t *testing.T) {
	s := NewSparseSet(0)
	for i := range 8 {
		s.Insert(NewEntityID(uint32(i), 0), i)
	}
	backing := len(s.dense)
	for i := range 8 {
		s.Remove(NewEntityID(uint32(i), 0))
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, backing, len(s.dense), "storage must not shrink")

	for i := range 8 {
		s.Insert(NewEntityID(uint32(i+100), 0), i)
	}
	assert.Equal(t, backing, len(s.dense), "storage must be reused")
	checkPacked(t, s)
}

// go test -run ^TestSparseSetInsertDuplicatePanics$ . -count 1
func TestSparseSetInsertDuplicatePanics(t *testing.T) {
	s := NewSparseSet(0)
	e := NewEntityID(4, 0)
	s.Insert(e, 1)
	assert.Panics(t, func() { s.Insert(e, 2) })
}

// go test -run ^TestSparseSetEach$ . -count 1
func TestSparseSetEach(t *testing.T) {
	s := NewSparseSet(0)
	for i := range 5 {
		s.Insert(NewEntityID(uint32(i), 0), i*10)
	}
	sum := 0
	s.Each(func(_ EntityID, v any) bool {
		sum += v.(int)
		return true
	})
	assert.Equal(t, 100, sum)

	visited := 0
	s.Each(func(EntityID, any) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

// go test -run ^TestSparseSetReset$ . -count 1
func TestSparseSetReset(t *testing.T) {
	s := NewSparseSet(0)
	e := NewEntityID(1, 0)
	s.Insert(e, 1)
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has(e))
	s.Insert(e, 2)
	v, _ := s.Get(e)
	assert.Equal(t, 2, v)
	checkPacked(t, s)
}

// go test -run ^TestSparseSetRandomPacking$ . -count 1
func TestSparseSetRandomPacking(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewSparseSet(0)
	want := map[EntityID]int{}
	for step := range 5000 {
		e := NewEntityID(uint32(rng.Intn(64)), 0)
		if _, ok := want[e]; ok && rng.Intn(2) == 0 {
			_, removed := s.Remove(e)
			require.True(t, removed)
			delete(want, e)
		} else if !ok {
			s.Insert(e, step)
			want[e] = step
		} else {
			require.True(t, s.Set(e, step))
			want[e] = step
		}
		require.Equal(t, len(want), s.Len())
	}
	checkPacked(t, s)
	for e, v := range want {
		got, ok := s.Get(e)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}
