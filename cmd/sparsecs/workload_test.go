package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/sparsecs"
)

// go test -run ^TestRunChurn$ ./cmd/sparsecs -count 1
func TestRunChurn(t *testing.T) {
	reg := sparsecs.NewRegistry()
	require.NoError(t, runChurn(reg, rand.New(rand.NewSource(3)), 200, 20, 0.1))

	s := reg.Stats()
	assert.Equal(t, 200, s.Entities)
	assert.Positive(t, s.Transitions)
	assert.LessOrEqual(t, s.Archetypes, 1<<int(compCount))
}

// go test -run ^TestRunToggle$ ./cmd/sparsecs -count 1
func TestRunToggle(t *testing.T) {
	reg := sparsecs.NewRegistry()
	require.NoError(t, runToggle(reg, 50, 10))

	s := reg.Stats()
	assert.Equal(t, 50, s.Entities)
	// root, {pos}, {pos,vel}, {pos,vel,dirty}
	assert.Equal(t, 4, s.Archetypes)
	assert.Equal(t, uint64(4), s.EdgeMisses, "each edge is resolved once")
	assert.Equal(t, uint64(50*2+50*2*10), s.Transitions)
}

// go test -run ^TestRunChurnExhausted$ ./cmd/sparsecs -count 1
func TestRunChurnExhausted(t *testing.T) {
	reg := sparsecs.NewRegistry(sparsecs.WithMaxEntities(10))
	err := runChurn(reg, rand.New(rand.NewSource(1)), 20, 1, 0)
	assert.ErrorIs(t, err, sparsecs.ErrAllocatorExhausted)
}

// go test -run ^TestExampleConfigLoads$ ./cmd/sparsecs -count 1
func TestExampleConfigLoads(t *testing.T) {
	cfg, err := sparsecs.LoadConfig("sparsecs.example.toml")
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.InitialCapacity)
	assert.Equal(t, "retain", cfg.ArchetypeCleanup)
}
