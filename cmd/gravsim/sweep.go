package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/experiment"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	base, err := cfg.State()
	if err != nil {
		return err
	}

	logger.Info("sweeping time step", "source", source(cfg), "runs", len(dts), "duration", duration)
	points, err := experiment.Sweep(base, duration, samples, dts, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT")
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\n", p.Dt, p.Steps, p.EnergyDrift, p.MomentumDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if order, err := experiment.ConvergenceOrder(points); err == nil {
		fmt.Printf("\nobserved order: %.2f\n", order)
	}
	return nil
}
