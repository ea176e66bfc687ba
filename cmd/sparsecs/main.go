// Command sparsecs drives a Registry through synthetic workloads and prints
// its structural counters. It is a harness for tuning and profiling the store.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edwinsyarief/sparsecs"
)

var (
	configPath  string
	profileMode string
	profileDir  string
	seed        int64
)

var rootCmd = &cobra.Command{
	Use:           "sparsecs",
	Short:         "Exercise the sparsecs entity store with synthetic workloads",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "registry config file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "write a pprof profile: cpu, mem or allocs")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", ".", "directory for profile output")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "random seed for workloads")
	rootCmd.AddCommand(newChurnCmd(), newToggleCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config, builds the logger and the registry, and starts the
// profiler if one was requested. The returned stop func must be called when
// the workload is done.
func setup() (*sparsecs.Registry, *zap.Logger, func(), error) {
	cfg := sparsecs.DefaultConfig()
	if configPath != "" {
		loaded, err := sparsecs.LoadConfig(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}
	logger, err := sparsecs.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}
	reg, err := sparsecs.NewRegistryFromConfig(cfg, sparsecs.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}

	stopProfile := func() {}
	if profileMode != "" {
		var mode func(*profile.Profile)
		switch profileMode {
		case "cpu":
			mode = profile.CPUProfile
		case "mem":
			mode = profile.MemProfile
		case "allocs":
			mode = profile.MemProfileAllocs
		default:
			return nil, nil, nil, fmt.Errorf("unknown profile mode %q", profileMode)
		}
		p := profile.Start(mode, profile.ProfilePath(profileDir), profile.NoShutdownHook, profile.Quiet)
		stopProfile = p.Stop
	}
	stop := func() {
		stopProfile()
		_ = logger.Sync()
	}
	return reg, logger, stop, nil
}

func printStats(s sparsecs.Stats) {
	fmt.Printf("entities            %d\n", s.Entities)
	fmt.Printf("archetypes          %d\n", s.Archetypes)
	fmt.Printf("archetypes created  %d\n", s.ArchetypesCreated)
	fmt.Printf("archetypes dropped  %d\n", s.ArchetypesDropped)
	fmt.Printf("transitions         %d\n", s.Transitions)
	fmt.Printf("edge hits           %d\n", s.EdgeHits)
	fmt.Printf("edge misses         %d\n", s.EdgeMisses)
}
