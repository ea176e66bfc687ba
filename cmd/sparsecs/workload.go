package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edwinsyarief/sparsecs"
)

// Component ids used by the workloads.
const (
	compPosition sparsecs.ComponentID = iota
	compVelocity
	compHealth
	compDirty
	compCount
)

type vec2 struct{ X, Y float64 }

func newChurnCmd() *cobra.Command {
	var (
		entities   int
		ticks      int
		despawnPct float64
	)
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Spawn, mutate and despawn random entities every tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, logger, stop, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			start := time.Now()
			if err := runChurn(reg, rand.New(rand.NewSource(seed)), entities, ticks, despawnPct); err != nil {
				return err
			}
			logger.Info("churn finished",
				zap.Int("ticks", ticks),
				zap.Duration("elapsed", time.Since(start)))
			printStats(reg.Stats())
			return nil
		},
	}
	cmd.Flags().IntVar(&entities, "entities", 10000, "target live entity count")
	cmd.Flags().IntVar(&ticks, "ticks", 100, "number of ticks to simulate")
	cmd.Flags().Float64Var(&despawnPct, "despawn", 0.05, "fraction of live entities despawned per tick")
	return cmd
}

func newToggleCmd() *cobra.Command {
	var (
		entities int
		ticks    int
	)
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Add and remove a tag component on every entity each tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, logger, stop, err := setup()
			if err != nil {
				return err
			}
			defer stop()
			start := time.Now()
			if err := runToggle(reg, entities, ticks); err != nil {
				return err
			}
			logger.Info("toggle finished",
				zap.Int("ticks", ticks),
				zap.Duration("elapsed", time.Since(start)))
			printStats(reg.Stats())
			return nil
		},
	}
	cmd.Flags().IntVar(&entities, "entities", 10000, "entity count")
	cmd.Flags().IntVar(&ticks, "ticks", 100, "number of ticks to simulate")
	return cmd
}

// runChurn keeps roughly n entities alive. Each tick it despawns a fraction
// of them, refills the population and flips one random component on every
// survivor.
func runChurn(reg *sparsecs.Registry, rng *rand.Rand, n, ticks int, despawnPct float64) error {
	live := make([]sparsecs.EntityID, 0, n)
	for range ticks {
		kill := int(float64(len(live)) * despawnPct)
		for range kill {
			i := rng.Intn(len(live))
			reg.Despawn(live[i])
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		for len(live) < n {
			e, err := reg.Spawn()
			if err != nil {
				return fmt.Errorf("spawn: %w", err)
			}
			if err := reg.SetComponent(e, compPosition, vec2{}); err != nil {
				return err
			}
			live = append(live, e)
		}
		for _, e := range live {
			c := sparsecs.ComponentID(rng.Intn(int(compCount)))
			has, err := reg.HasComponent(e, c)
			if err != nil {
				return err
			}
			if has {
				err = reg.RemoveComponent(e, c)
			} else {
				err = reg.SetComponent(e, c, vec2{X: rng.Float64(), Y: rng.Float64()})
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// runToggle spawns n entities with position and velocity, then adds and
// removes the dirty tag on all of them once per tick.
func runToggle(reg *sparsecs.Registry, n, ticks int) error {
	ents := make([]sparsecs.EntityID, n)
	for i := range ents {
		e, err := reg.Spawn()
		if err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		if err := reg.SetComponent(e, compPosition, vec2{}); err != nil {
			return err
		}
		if err := reg.SetComponent(e, compVelocity, vec2{X: 1}); err != nil {
			return err
		}
		ents[i] = e
	}
	for range ticks {
		for _, e := range ents {
			if err := reg.SetComponent(e, compDirty, struct{}{}); err != nil {
				return err
			}
		}
		for _, e := range ents {
			if err := reg.RemoveComponent(e, compDirty); err != nil {
				return err
			}
		}
	}
	return nil
}
