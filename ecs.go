// Package sparsecs implements an archetype-based entity component store.
//
// Entities are generational ids handed out by an allocator. Every entity that
// carries components lives in exactly one archetype, the table of all
// entities sharing its exact component set. An archetype keeps one sparse set
// per component, so values of a kind are packed contiguously and can be
// inserted, removed and looked up in O(1).
//
// Features:
//   - Up to 256 component ids per registry, signatures are 256-bit masks.
//   - Generation-tagged ids with LIFO slot recycling.
//   - Swap-remove storage that never shrinks during normal operation.
//   - Cached add/remove transition edges between archetypes.
//   - Configurable cleanup of empty archetypes.
//
// The store is single-threaded. Component ids are chosen by the host.
package sparsecs
