// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/edwinsyarief/sparsecs"
)

const (
	comp1 sparsecs.ComponentID = iota
	comp2
)

type pair struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	ents := make([]sparsecs.EntityID, 0, numEntities)
	for range rounds {
		r := sparsecs.NewRegistry(sparsecs.WithInitialCapacity(numEntities))
		for range iters {
			ents = ents[:0]
			for range numEntities {
				e, err := r.Spawn()
				if err != nil {
					panic(err)
				}
				_ = r.SetComponent(e, comp1, pair{V: 1})
				_ = r.SetComponent(e, comp2, pair{W: 2})
				ents = append(ents, e)
			}
			for _, e := range ents {
				a, _ := sparsecs.Get[pair](r, e, comp1)
				b, _ := sparsecs.Get[pair](r, e, comp2)
				a.V += b.V
				a.W += b.W
				_ = r.SetComponent(e, comp1, a)
			}
			for _, e := range ents {
				r.Despawn(e)
			}
		}
	}
}
