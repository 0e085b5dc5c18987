package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/storage"
)

const defaultDatabase = "gravsim.db"

func openCatalog(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	path := cfg.Database
	if path == "" {
		path = defaultDatabase
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("run catalog %s: %w", path, err)
	}
	return storage.Open(context.Background(), path)
}

// lookup loads the run named by args, or the newest run.
func lookup(ctx context.Context, st *storage.Store, args []string) (*storage.Run, error) {
	if len(args) == 0 {
		return st.Latest(ctx)
	}
	return st.LoadRun(ctx, args[0])
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tN\tDT\tSTEPS\tSTATUS\tENERGY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\t%s\t%.9f\n",
			run.ShortID(),
			run.Source,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Dt,
			run.Steps,
			run.Status,
			run.FinalEnergy.Total,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := lookup(ctx, st, args)
	if err != nil {
		return err
	}
	energies, err := st.LoadEnergies(ctx, run.ID)
	if err != nil {
		return err
	}
	if len(energies) < 2 {
		return fmt.Errorf("run %s: not enough samples to plot", run.ShortID())
	}

	fmt.Printf("run: %s (%s)\n", run.ID, run.Source)
	fmt.Printf("samples: %d\n\n", len(energies))

	series := map[string][]float64{}
	for _, e := range energies {
		series["kinetic"] = append(series["kinetic"], e.Kinetic)
		series["potential"] = append(series["potential"], e.Potential)
		series["total"] = append(series["total"], e.Total)
	}
	for _, name := range []string{"kinetic", "potential", "total"} {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" energy"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := lookup(ctx, st, args)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(ctx, run.ID)
	if err != nil {
		return err
	}
	energies, err := st.LoadEnergies(ctx, run.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	trajPath := filepath.Join(outDir, run.ShortID()+"_traj.csv")
	energyPath := filepath.Join(outDir, run.ShortID()+"_energies.csv")

	f, err := os.Create(trajPath)
	if err != nil {
		return err
	}
	if err := export.TrajectoryCSV(f, traj); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	f, err = os.Create(energyPath)
	if err != nil {
		return err
	}
	if err := export.EnergiesCSV(f, energies); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("exported %s, %s\n", trajPath, energyPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := lookup(ctx, st, args)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(ctx, run.ID)
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("run %s has no snapshots", run.ShortID())
	}

	path := outFile
	if path == "" {
		path = run.ShortID() + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.OrbitsToSVG(traj, width, height, nil)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := lookup(ctx, st, args)
	if err != nil {
		return err
	}
	if body < 1 || body > run.Bodies {
		return fmt.Errorf("body %d outside 1..%d", body, run.Bodies)
	}
	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis %d outside 0..2", axis)
	}
	traj, err := st.LoadTrajectory(ctx, run.ID)
	if err != nil {
		return err
	}

	interval := run.Dt * float64(run.DumpInterval)
	x := analysis.Coordinate(traj, body-1, axis)

	fmt.Printf("analysis: %s (%s)\n", run.ID, run.Source)
	fmt.Printf("body %d, axis %d, %d samples every %g\n\n", body, axis, len(x), interval)

	ps := analysis.PowerSpectrum(x)
	if len(ps) > 2 {
		plotData := ps[1:]
		if len(plotData) > 200 {
			plotData = plotData[:200]
		}
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
		fmt.Println()
	}

	if period, err := analysis.DominantPeriod(x, interval); err == nil {
		fmt.Printf("dominant period: %.6g\n", period)
	} else {
		fmt.Printf("dominant period: n/a (%v)\n", err)
	}

	for _, name := range sortedKeys(run.Metrics) {
		fmt.Printf("%s: %.6e\n", name, run.Metrics[name])
	}

	// The stability estimate restarts from the first snapshot.
	if len(traj) > 0 && len(run.Masses) == run.Bodies {
		s := run.InitialState(traj[0])
		lambda, err := analysis.LyapunovExponent(s, physics.NewGravity(s.G), 1e-8, s.TotalSteps)
		if err != nil {
			fmt.Printf("lyapunov exponent: n/a (%v)\n", err)
		} else {
			fmt.Printf("lyapunov exponent: %.6g\n", lambda)
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := lookup(ctx, st, args)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(ctx, run.ID)
	if err != nil {
		return err
	}
	energies, err := st.LoadEnergies(ctx, run.ID)
	if err != nil {
		return err
	}

	doc := &export.RunData{
		ID:           run.ID,
		Source:       run.Source,
		CreatedAt:    run.CreatedAt,
		Bodies:       run.Bodies,
		G:            run.G,
		Dt:           run.Dt,
		DumpInterval: run.DumpInterval,
		TotalSteps:   run.TotalSteps,
		Masses:       run.Masses,
		Status:       run.Status,
		Metrics:      run.Metrics,
	}
	doc.Fill(traj, energies)

	if outFile == "" {
		return export.RunJSON(os.Stdout, doc)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := export.RunJSON(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
