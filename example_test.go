package sparsecs_test

import (
	"errors"
	"fmt"

	"github.com/edwinsyarief/sparsecs"
)

// Component ids are assigned by the host.
const (
	Position sparsecs.ComponentID = iota
	Velocity
)

type Vec2 struct{ X, Y float64 }

// ExampleRegistry walks an entity through three archetypes.
func ExampleRegistry() {
	r := sparsecs.NewRegistry()

	e, _ := r.Spawn()
	_ = r.SetComponent(e, Position, Vec2{0, 0})
	_ = r.SetComponent(e, Velocity, Vec2{1, 0})
	sig, _ := r.Signature(e)
	fmt.Println("signature:", sig)

	_ = r.RemoveComponent(e, Position)
	vel, _ := sparsecs.Get[Vec2](r, e, Velocity)
	has, _ := r.HasComponent(e, Position)
	fmt.Println("has position:", has, "velocity:", vel)

	r.Despawn(e)
	err := r.SetComponent(e, Position, Vec2{})
	fmt.Println("after despawn:", errors.Is(err, sparsecs.ErrInvalidEntity))

	// Output:
	// signature: {0,1}
	// has position: false velocity: {1 0}
	// after despawn: true
}

// ExampleRegistry_Spawn shows a slot being reissued under a new generation.
func ExampleRegistry_Spawn() {
	r := sparsecs.NewRegistry()
	old, _ := r.Spawn()
	r.Despawn(old)
	reborn, _ := r.Spawn()
	fmt.Println(old, reborn, r.IsValid(old))

	// Output:
	// Entity(0:0) Entity(0:1) false
}

// ExampleSubscribe reports archetype creation to a host.
func ExampleSubscribe() {
	r := sparsecs.NewRegistry()
	sparsecs.Subscribe(r.Events(), func(ev sparsecs.ArchetypeCreated) {
		fmt.Println("new archetype", ev.ID, ev.Signature)
	})
	e, _ := r.Spawn()
	_ = r.SetComponent(e, Velocity, Vec2{})
	_ = r.SetComponent(e, Position, Vec2{})

	// Output:
	// new archetype 1 {1}
	// new archetype 2 {0,1}
}
