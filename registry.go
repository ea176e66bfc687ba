package sparsecs

import (
	"fmt"

	"go.uber.org/zap"
)

// Stats counts structural work done by a Registry.
type Stats struct {
	Transitions       uint64 // entity relocations between archetypes
	EdgeHits          uint64 // transitions served by a cached edge
	EdgeMisses        uint64 // transitions that had to resolve a signature
	ArchetypesCreated uint64
	ArchetypesDropped uint64
	Archetypes        int // archetypes currently registered
	Entities          int // live entities
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	initialCapacity int
	maxEntities     uint32
	cleanup         CleanupPolicy
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInitialCapacity preallocates bookkeeping for n entities.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.initialCapacity = max(n, 0) }
}

// WithMaxEntities bounds the entity index space. Zero means the full 32-bit
// range.
func WithMaxEntities(n uint32) Option {
	return func(o *options) { o.maxEntities = n }
}

// WithCleanupPolicy selects what happens to archetypes that become empty.
func WithCleanupPolicy(p CleanupPolicy) Option {
	return func(o *options) { o.cleanup = p }
}

// Registry is the entry point of the store. It owns the entity allocator, the
// archetype table with its transition graph and the entity -> archetype
// index. Callers only ever hold EntityIDs.
//
// A Registry is not safe for concurrent use; a host that mutates from several
// goroutines must serialize access itself.
type Registry struct {
	entities *EntityAllocator
	graph    *transitionGraph
	index    []*archetype // entity index -> owning archetype, nil if none
	events   *EventBus
	logger   *zap.Logger
	stats    Stats
}

// NewRegistry creates an empty Registry.
//
// Parameters:
//   - opts: Functional options for logging, sizing and archetype cleanup.
//
// Returns:
//   - The newly created Registry, with the empty-signature archetype already
//     registered.
func NewRegistry(opts ...Option) *Registry {
	o := options{
		logger:          zap.NewNop(),
		initialCapacity: 1024,
		cleanup:         CleanupRetain,
	}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Registry{
		entities: NewEntityAllocator(o.initialCapacity, o.maxEntities),
		index:    make([]*archetype, 0, o.initialCapacity),
		events:   &EventBus{},
		logger:   o.logger,
	}
	r.graph = newTransitionGraph(o.cleanup, o.logger, r.events, &r.stats)
	return r
}

// NewRegistryFromConfig creates a Registry from a Config. Extra options are
// applied after the ones derived from cfg.
func NewRegistryFromConfig(cfg *Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := ParseCleanupPolicy(cfg.ArchetypeCleanup)
	base := []Option{
		WithInitialCapacity(cfg.InitialCapacity),
		WithMaxEntities(cfg.MaxEntities),
		WithCleanupPolicy(policy),
	}
	return NewRegistry(append(base, opts...)...), nil
}

// Events returns the bus on which the Registry publishes ArchetypeCreated,
// ArchetypeDropped and EntityDespawned.
func (r *Registry) Events() *EventBus { return r.events }

// Spawn allocates a new entity. The entity carries no components and belongs
// to no archetype until its first SetComponent.
func (r *Registry) Spawn() (EntityID, error) {
	e, err := r.entities.Allocate()
	if err != nil {
		r.logger.Warn("entity allocation failed",
			zap.Int("live", r.entities.Len()),
			zap.Error(err))
		return 0, err
	}
	idx := int(e.Index())
	if idx >= len(r.index) {
		r.index = append(r.index, make([]*archetype, idx+1-len(r.index))...)
	}
	r.index[idx] = nil
	return e, nil
}

// Despawn destroys e: it is removed from its archetype and from every
// component store, and its slot goes back to the allocator. Despawning an
// invalid or already despawned id does nothing.
func (r *Registry) Despawn(e EntityID) {
	if !r.entities.IsLive(e) {
		return
	}
	var sig Signature
	if a := r.index[e.Index()]; a != nil {
		sig = a.signature
		for _, c := range a.components {
			_, ok := a.store(c).Remove(e)
			invariant(ok, "entity %s missing from store %d of archetype %s", e, c, a.signature)
		}
		a.removeEntity(e)
		r.index[e.Index()] = nil
		r.graph.released(a)
	}
	r.entities.Free(e.Index())
	Publish(r.events, EntityDespawned{Entity: e, Signature: sig})
}

// SetComponent stores v as component c of e. If e already carries c the value
// is overwritten in place; otherwise e moves to the archetype of its signature
// plus c, taking all of its existing values with it.
//
// Returns:
//   - An error wrapping ErrInvalidEntity if e is not live.
func (r *Registry) SetComponent(e EntityID, c ComponentID, v any) error {
	if !r.entities.IsLive(e) {
		return invalidEntity(e)
	}
	from := r.attach(e)
	if from.signature.Has(c) {
		ok := from.store(c).Set(e, v)
		invariant(ok, "entity %s missing from store %d of archetype %s", e, c, from.signature)
		return nil
	}
	to := r.graph.resolve(from, c, true)
	r.move(e, from, to)
	to.store(c).Insert(e, v)
	return nil
}

// RemoveComponent detaches component c from e, moving e to the archetype of
// its signature minus c. It does nothing if e does not carry c.
//
// Returns:
//   - An error wrapping ErrInvalidEntity if e is not live.
func (r *Registry) RemoveComponent(e EntityID, c ComponentID) error {
	if !r.entities.IsLive(e) {
		return invalidEntity(e)
	}
	from := r.index[e.Index()]
	if from == nil || !from.signature.Has(c) {
		return nil
	}
	to := r.graph.resolve(from, c, false)
	r.move(e, from, to)
	return nil
}

// HasComponent reports whether the signature of e's archetype contains c.
func (r *Registry) HasComponent(e EntityID, c ComponentID) (bool, error) {
	if !r.entities.IsLive(e) {
		return false, invalidEntity(e)
	}
	a := r.index[e.Index()]
	return a != nil && a.signature.Has(c), nil
}

// GetComponent returns the value of component c of e.
//
// Returns:
//   - An error wrapping ErrInvalidEntity if e is not live, or
//     ErrComponentNotFound if e does not carry c.
func (r *Registry) GetComponent(e EntityID, c ComponentID) (any, error) {
	if !r.entities.IsLive(e) {
		return nil, invalidEntity(e)
	}
	a := r.index[e.Index()]
	if a == nil || !a.signature.Has(c) {
		return nil, fmt.Errorf("%w: entity %s, component %d", ErrComponentNotFound, e, c)
	}
	v, ok := a.store(c).Get(e)
	invariant(ok, "entity %s missing from store %d of archetype %s", e, c, a.signature)
	return v, nil
}

// Get returns component c of e as a T.
//
// Returns:
//   - The errors of GetComponent, or an error wrapping ErrComponentType if the
//     stored value is not a T.
func Get[T any](r *Registry, e EntityID, c ComponentID) (T, error) {
	var zero T
	v, err := r.GetComponent(e, c)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: entity %s, component %d holds %T, want %T", ErrComponentType, e, c, v, zero)
	}
	return t, nil
}

// Signature returns the component set of e. An entity that never had a
// component has the empty signature.
func (r *Registry) Signature(e EntityID) (Signature, error) {
	if !r.entities.IsLive(e) {
		return Signature{}, invalidEntity(e)
	}
	if a := r.index[e.Index()]; a != nil {
		return a.signature, nil
	}
	return Signature{}, nil
}

// IsValid reports whether e passes the generation check alone. An id whose
// entity was despawned stays valid until its slot is reissued.
func (r *Registry) IsValid(e EntityID) bool { return r.entities.IsStructurallyValid(e) }

// IsLive reports whether e refers to an entity that has not been despawned.
func (r *Registry) IsLive(e EntityID) bool { return r.entities.IsLive(e) }

// Len returns the number of live entities.
func (r *Registry) Len() int { return r.entities.Len() }

// ArchetypeCount returns the number of registered archetypes, including the
// empty-signature one.
func (r *Registry) ArchetypeCount() int { return len(r.graph.archetypes) }

// Archetypes returns read-only views of the registered archetypes in creation
// order.
func (r *Registry) Archetypes() []Archetype {
	out := make([]Archetype, len(r.graph.archetypes))
	for i, a := range r.graph.archetypes {
		out[i] = Archetype{a: a}
	}
	return out
}

// Archetype returns the registered archetype for sig.
func (r *Registry) Archetype(sig Signature) (Archetype, bool) {
	a, ok := r.graph.lookup(sig)
	if !ok {
		return Archetype{}, false
	}
	return Archetype{a: a}, true
}

// Stats returns a snapshot of the structural counters.
func (r *Registry) Stats() Stats {
	s := r.stats
	s.Archetypes = len(r.graph.archetypes)
	s.Entities = r.entities.Len()
	return s
}

// Compact drops every empty archetype except the empty-signature one,
// whatever the cleanup policy. It returns the number of archetypes dropped.
func (r *Registry) Compact() int {
	n := r.graph.compact()
	if n > 0 {
		r.logger.Debug("archetypes compacted", zap.Int("dropped", n))
	}
	return n
}

// Clear despawns every live entity. Archetypes and their storage are kept for
// reuse. No EntityDespawned events are published.
func (r *Registry) Clear() {
	for _, a := range r.graph.archetypes {
		a.reset()
	}
	var live []EntityID
	r.entities.each(func(e EntityID) { live = append(live, e) })
	for _, e := range live {
		r.index[e.Index()] = nil
		r.entities.Free(e.Index())
	}
	if r.graph.policy == CleanupDrop {
		r.graph.compact()
	}
}

// attach returns the archetype of e, placing e in the root archetype if it has
// none yet.
func (r *Registry) attach(e EntityID) *archetype {
	if a := r.index[e.Index()]; a != nil {
		return a
	}
	root := r.graph.root
	root.addEntity(e)
	r.index[e.Index()] = root
	return root
}

// move relocates e from one archetype to another. Every value of a component
// present in both signatures is carried over; values of components missing
// from the destination are dropped.
func (r *Registry) move(e EntityID, from, to *archetype) {
	invariant(from != to, "transition of %s onto its own archetype %s", e, from.signature)
	for _, c := range from.components {
		v, ok := from.store(c).Remove(e)
		invariant(ok, "entity %s missing from store %d of archetype %s", e, c, from.signature)
		if to.signature.Has(c) {
			to.store(c).Insert(e, v)
		}
	}
	from.removeEntity(e)
	to.addEntity(e)
	r.index[e.Index()] = to
	r.stats.Transitions++
	r.graph.released(from)
}

func invalidEntity(e EntityID) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntity, e)
}
