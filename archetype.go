package sparsecs

// edgeKey labels a transition edge by the component toggled and the direction.
type edgeKey struct {
	component ComponentID
	add       bool
}

// archetype holds the entities of one exact signature and one SparseSet per
// component of that signature.
type archetype struct {
	stores     [MaxComponentTypes]*SparseSet // nil until first insert
	edges      map[edgeKey]*archetype        // cached transitions out of this archetype
	entities   []EntityID                    // dense row order
	rows       sparseIndex                   // entity index -> row in entities
	components []ComponentID                 // signature bits, ascending
	signature  Signature
	count      int
	id         int  // creation order, stable for the lifetime of the registry
	retired    bool // dropped from the table; edges into it must be re-resolved
}

func newArchetype(id int, sig Signature) *archetype {
	return &archetype{
		id:         id,
		signature:  sig,
		components: sig.Components(),
		edges:      make(map[edgeKey]*archetype, 4),
	}
}

// store returns the set for c, creating it on first use.
func (a *archetype) store(c ComponentID) *SparseSet {
	s := a.stores[c]
	if s == nil {
		s = NewSparseSet(c)
		a.stores[c] = s
	}
	return s
}

// addEntity appends e to the entity list.
func (a *archetype) addEntity(e EntityID) {
	row := a.count
	if row < len(a.entities) {
		a.entities[row] = e
	} else {
		a.entities = append(a.entities, e)
	}
	a.rows.set(e.Index(), row)
	a.count++
}

// removeEntity swap-removes e from the entity list. Component stores are
// handled by the caller.
func (a *archetype) removeEntity(e EntityID) {
	row, ok := a.rows.get(e.Index())
	invariant(ok && a.entities[row] == e, "entity %s missing from archetype %s", e, a.signature)
	last := a.count - 1
	if row < last {
		moved := a.entities[last]
		a.entities[row] = moved
		a.rows.set(moved.Index(), row)
	}
	a.entities[last] = 0
	a.rows.clear(e.Index())
	a.count--
}

// reset drops every entity and every stored value but keeps the archetype and
// its edges.
func (a *archetype) reset() {
	for row := 0; row < a.count; row++ {
		a.rows.clear(a.entities[row].Index())
		a.entities[row] = 0
	}
	a.count = 0
	for _, c := range a.components {
		if s := a.stores[c]; s != nil {
			s.Reset()
		}
	}
}

// Archetype is a read-only view of one archetype, handed out by
// Registry.Archetypes.
type Archetype struct {
	a *archetype
}

// ID returns the creation-order id of the archetype.
func (v Archetype) ID() int { return v.a.id }

// Signature returns the component set shared by the archetype's entities.
func (v Archetype) Signature() Signature { return v.a.signature }

// Len returns the number of entities in the archetype.
func (v Archetype) Len() int { return v.a.count }

// Entities returns a copy of the entity list in row order.
func (v Archetype) Entities() []EntityID {
	out := make([]EntityID, v.a.count)
	copy(out, v.a.entities[:v.a.count])
	return out
}

// Each calls fn with the value of component c for every entity of the
// archetype in row order until fn returns false. It does nothing if c is not
// part of the signature.
func (v Archetype) Each(c ComponentID, fn func(EntityID, any) bool) {
	if !v.a.signature.Has(c) {
		return
	}
	if s := v.a.stores[c]; s != nil {
		s.Each(fn)
	}
}
