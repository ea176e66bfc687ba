package sparsecs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CleanupPolicy decides what happens to an archetype whose entity count drops
// to zero.
type CleanupPolicy uint8

const (
	// CleanupRetain keeps empty archetypes and their cached edges. An empty
	// archetype is only a hint for Compact.
	CleanupRetain CleanupPolicy = iota
	// CleanupDrop removes an archetype from the table as soon as it becomes
	// empty. Cached edges pointing at it are re-resolved on next traversal.
	CleanupDrop
)

func (p CleanupPolicy) String() string {
	switch p {
	case CleanupRetain:
		return "retain"
	case CleanupDrop:
		return "drop"
	default:
		return fmt.Sprintf("CleanupPolicy(%d)", uint8(p))
	}
}

// ParseCleanupPolicy parses "retain" or "drop". The empty string selects
// CleanupRetain.
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retain":
		return CleanupRetain, nil
	case "drop":
		return CleanupDrop, nil
	default:
		return CleanupRetain, fmt.Errorf("unknown archetype cleanup policy %q", s)
	}
}

// transitionGraph owns the archetype table and the cached edges between
// archetypes. The root archetype (empty signature) is never dropped.
type transitionGraph struct {
	bySignature map[Signature]*archetype
	archetypes  []*archetype // live archetypes in creation order
	root        *archetype
	logger      *zap.Logger
	bus         *EventBus
	stats       *Stats
	nextID      int
	policy      CleanupPolicy
}

func newTransitionGraph(policy CleanupPolicy, logger *zap.Logger, bus *EventBus, stats *Stats) *transitionGraph {
	g := &transitionGraph{
		bySignature: make(map[Signature]*archetype, 16),
		archetypes:  make([]*archetype, 0, 16),
		policy:      policy,
		logger:      logger,
		bus:         bus,
		stats:       stats,
	}
	g.root = g.getOrCreate(Signature{})
	return g
}

// getOrCreate returns the archetype registered for sig, creating it if
// missing.
func (g *transitionGraph) getOrCreate(sig Signature) *archetype {
	if a, ok := g.bySignature[sig]; ok {
		return a
	}
	a := newArchetype(g.nextID, sig)
	g.nextID++
	g.bySignature[sig] = a
	g.archetypes = append(g.archetypes, a)
	g.stats.ArchetypesCreated++
	g.logger.Debug("archetype created",
		zap.Int("archetype", a.id),
		zap.Stringer("signature", sig))
	Publish(g.bus, ArchetypeCreated{ID: a.id, Signature: sig})
	return a
}

// resolve returns the archetype reached from `from` by adding or removing c.
// A cached edge is used when its target is still registered; otherwise the
// target is looked up or created by signature and the edge is cached on
// `from` only.
func (g *transitionGraph) resolve(from *archetype, c ComponentID, add bool) *archetype {
	key := edgeKey{component: c, add: add}
	if to, ok := from.edges[key]; ok && !to.retired {
		g.stats.EdgeHits++
		return to
	}
	g.stats.EdgeMisses++
	var sig Signature
	if add {
		sig = from.signature.With(c)
	} else {
		sig = from.signature.Without(c)
	}
	to := g.getOrCreate(sig)
	from.edges[key] = to
	return to
}

// released is called after an entity left a. Under CleanupDrop an empty
// non-root archetype is dropped.
func (g *transitionGraph) released(a *archetype) {
	if g.policy == CleanupDrop && a.count == 0 && a != g.root {
		g.drop(a)
	}
}

// drop unregisters an empty archetype and flags it retired so edges held by
// other archetypes are not followed into it.
func (g *transitionGraph) drop(a *archetype) {
	invariant(a.count == 0, "dropping archetype %s with %d entities", a.signature, a.count)
	invariant(a != g.root, "dropping root archetype")
	delete(g.bySignature, a.signature)
	for i, b := range g.archetypes {
		if b == a {
			g.archetypes = append(g.archetypes[:i], g.archetypes[i+1:]...)
			break
		}
	}
	a.retired = true
	clear(a.edges)
	g.stats.ArchetypesDropped++
	g.logger.Debug("archetype dropped",
		zap.Int("archetype", a.id),
		zap.Stringer("signature", a.signature))
	Publish(g.bus, ArchetypeDropped{ID: a.id, Signature: a.signature})
}

// compact drops every empty non-root archetype and returns how many were
// dropped.
func (g *transitionGraph) compact() int {
	var empty []*archetype
	for _, a := range g.archetypes {
		if a.count == 0 && a != g.root {
			empty = append(empty, a)
		}
	}
	for _, a := range empty {
		g.drop(a)
	}
	return len(empty)
}

// lookup returns the registered archetype for sig, if any.
func (g *transitionGraph) lookup(sig Signature) (*archetype, bool) {
	a, ok := g.bySignature[sig]
	return a, ok
}
