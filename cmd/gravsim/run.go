package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/input"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/output"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

func source(cfg *config.Config) string {
	if cfg.Input != "" {
		return cfg.Input
	}
	return "preset:" + cfg.Preset
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	state, err := cfg.State()
	if err != nil {
		return err
	}
	if saveYAML != "" {
		if err := writeYAML(saveYAML, state); err != nil {
			return err
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	header := output.Header{Bodies: state.Bodies, G: state.G, Masses: state.Masses}
	if cfg.Banner {
		header.Banner = output.Quote(rand.New(rand.NewSource(cfg.Seed)))
	}

	dat, err := output.CreateDat(cfg.OutputDir, cfg.TrajectoryFile, cfg.EnergyFile, header)
	if err != nil {
		return err
	}
	defer dat.Close()
	sinks := []dynamo.Sink{dat}

	var catalog *catalogRun
	if cfg.Database != "" {
		catalog, err = startCatalogRun(ctx, cfg.Database, source(cfg), cfg.Seed, state)
		if err != nil {
			return err
		}
		defer catalog.close()
		sinks = append(sinks, catalog.writer)
		logger = logger.With("run", catalog.id[:8])
	}

	drv, err := sim.New(state, physics.NewGravity(state.G), output.Multi(sinks...),
		sim.WithLogger(logger),
		sim.WithMetrics(metrics.Default()...),
	)
	if err != nil {
		if catalog != nil {
			if aerr := catalog.abandon(ctx, err); aerr != nil {
				logger.Error("could not mark run aborted", "err", aerr)
			}
		}
		return err
	}
	defer drv.Close()

	start := time.Now()
	res, runErr := drv.Run()
	elapsed := time.Since(start)

	if err := dat.Close(); err != nil && runErr == nil {
		runErr = err
	}
	var runID string
	if catalog != nil {
		if err := catalog.finish(ctx, res, runErr); err != nil {
			return err
		}
		runID = catalog.id
	}

	printSummary(logger, cfg, res, runID, elapsed)
	return runErr
}

// catalogRun is a run row in the catalog together with the open
// transaction its samples are written in.
type catalogRun struct {
	store  *storage.Store
	id     string
	writer *storage.Writer
}

func startCatalogRun(ctx context.Context, path, src string, seed int64, state *dynamo.State) (*catalogRun, error) {
	st, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	id, err := st.CreateRun(ctx, src, seed, state)
	if err != nil {
		st.Close()
		return nil, err
	}
	w, err := st.Writer(ctx, id)
	if err != nil {
		if ferr := st.FinishRun(ctx, id, nil, err); ferr != nil {
			err = errors.Join(err, ferr)
		}
		st.Close()
		return nil, err
	}
	return &catalogRun{store: st, id: id, writer: w}, nil
}

// finish keeps the samples written so far, even for an aborted run, and
// records the outcome.
func (c *catalogRun) finish(ctx context.Context, res *sim.Result, runErr error) error {
	if err := c.writer.Commit(); err != nil {
		return fmt.Errorf("commit snapshots: %w", err)
	}
	return c.store.FinishRun(ctx, c.id, res, runErr)
}

// abandon discards the sample transaction of a run that never started.
func (c *catalogRun) abandon(ctx context.Context, cause error) error {
	if err := c.writer.Rollback(); err != nil {
		return err
	}
	return c.store.FinishRun(ctx, c.id, nil, cause)
}

func (c *catalogRun) close() error {
	return c.store.Close()
}

func writeYAML(path string, s *dynamo.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := input.WriteYAML(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(logger *log.Logger, cfg *config.Config, res *sim.Result, runID string, elapsed time.Duration) {
	if res.SkippedSteps > 0 {
		logger.Warn("trailing steps were not executed", "skipped", res.SkippedSteps)
	}
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("output: %s, %s\n", cfg.TrajectoryPath(), cfg.EnergyPath())
	fmt.Printf("snapshots: %d  steps: %d  skipped: %d\n", res.Cycles, res.StepsTaken, res.SkippedSteps)
	fmt.Printf("final energy: kinetic %.9f  potential %.9f  total %.9f\n",
		res.FinalEnergy.Kinetic, res.FinalEnergy.Potential, res.FinalEnergy.Total)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Printf("  %s: %.6e\n", name, res.Metrics[name])
	}
}
