// Profiling:
// go build ./cmd/depotprofile
// ./depotprofile --mode mem --config world.toml
// go tool pprof -http=":8000" -nodefraction=0.001 ./depotprofile mem.pprof

package main

import (
	"context"
	"os"

	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type health struct {
	Current, Max int
}

var (
	configPath string
	mode       string
	outDir     string
	rounds     int
	entities   int
	iters      int
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "depotprofile",
		Short:         "Profile archetype migrations under a repeatable workload",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			if err := run(cmd.Context(), logger); err != nil {
				logger.Error().Err(err).Msg("profile run failed")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "TOML world config")
	cmd.Flags().StringVar(&mode, "mode", "cpu", "profile kind: cpu or mem")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the profile output")
	cmd.Flags().IntVar(&rounds, "rounds", 20, "number of fresh worlds")
	cmd.Flags().IntVar(&entities, "entities", 1000, "entities per world")
	cmd.Flags().IntVar(&iters, "iters", 200, "add/remove passes per world")
	return cmd
}

func run(ctx context.Context, logger zerolog.Logger) error {
	var opts []depot.Option
	if configPath != "" {
		cfg, err := depot.LoadWorldConfig(configPath)
		if err != nil {
			return err
		}
		if opts, err = cfg.Options(os.Stderr); err != nil {
			return err
		}
	}

	var kind func(*profile.Profile)
	switch mode {
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	default:
		return eris.Errorf("unknown profile mode %q", mode)
	}

	p := profile.Start(kind, profile.ProfilePath(outDir), profile.NoShutdownHook, profile.Quiet)
	defer p.Stop()

	for round := range rounds {
		if err := migrate(ctx, opts); err != nil {
			return eris.Wrapf(err, "round %d", round)
		}
	}
	logger.Info().
		Str("mode", mode).
		Int("rounds", rounds).
		Int("entities", entities).
		Int("iters", iters).
		Msg("profile written to " + outDir)
	return nil
}

// migrate drives every entity of a fresh world back and forth between two archetypes,
// then integrates positions in a scheduled job.
func migrate(ctx context.Context, opts []depot.Option) error {
	world := depot.Factory.NewWorld(opts...)
	defer world.Close()

	pos := depot.FactoryNewComponent[position]()
	vel := depot.FactoryNewComponent[velocity]()

	ids, err := world.NewEntities(entities, pos)
	if err != nil {
		return err
	}
	for i := range iters {
		for _, id := range ids {
			if err := vel.Add(world, id, velocity{X: 1, Y: float64(i)}); err != nil {
				return err
			}
		}
		if i%2 == 0 {
			if err := depot.AddComponent(world, ids[0], health{Max: i}); err != nil {
				return err
			}
			if err := depot.RemoveComponent[health](world, ids[0]); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := vel.Remove(world, id); err != nil {
				return err
			}
		}
	}

	job := world.ScheduleContext(ctx, func(context.Context) error {
		for _, id := range ids {
			p, err := pos.GetFromEntity(world, id)
			if err != nil {
				return err
			}
			p.X++
		}
		return nil
	}, nil)
	if err := job.Wait(ctx); err != nil {
		return err
	}
	if world.EntityCount() != entities {
		return eris.Errorf("entity count drifted: have %d, want %d", world.EntityCount(), entities)
	}
	return nil
}
