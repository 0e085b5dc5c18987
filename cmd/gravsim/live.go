package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
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

	// The terminal belongs to the view while it runs.
	logger.SetOutput(io.Discard)

	feed := viz.NewFeed(0)
	drv, err := sim.New(state, physics.NewGravity(state.G), feed, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	defer drv.Close()

	final, err := tea.NewProgram(viz.NewModel(drv, feed, source(cfg)), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("live view: %w", err)
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
