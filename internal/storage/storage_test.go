package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func binary() *dynamo.State {
	s := dynamo.NewState(2)
	s.G, s.Dt, s.DumpInterval, s.TotalSteps = 1, 1e-3, 10, 100
	copy(s.Masses, []float64{1, 2})
	copy(s.Positions, []float64{-1, 0, 0, 1, 0, 0})
	copy(s.Velocities, []float64{0, -0.5, 0, 0, 0.25, 0})
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	if err := Migrate(path); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(path); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestStoreRunLifecycle(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	s := binary()

	id, err := st.CreateRun(ctx, "binary", 42, s)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	w, err := st.Writer(ctx, id)
	if err != nil {
		t.Fatalf("writer failed: %v", err)
	}
	drv, err := sim.New(s, physics.NewGravity(s.G), w)
	if err != nil {
		t.Fatal(err)
	}
	res, runErr := drv.Run()
	if runErr != nil {
		t.Fatalf("run failed: %v", runErr)
	}
	res.Metrics["energy_drift"] = 1e-9
	if err := w.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if err := st.FinishRun(ctx, id, res, nil); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	run, err := st.LoadRun(ctx, id[:8])
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if run.ID != id || run.Status != StatusDone || run.Cycles != 10 || run.Steps != 100 {
		t.Errorf("unexpected run %+v", run)
	}
	if len(run.Masses) != 2 || run.Masses[1] != 2 {
		t.Errorf("masses = %v", run.Masses)
	}
	if run.Metrics["energy_drift"] != 1e-9 {
		t.Errorf("metrics = %v", run.Metrics)
	}
	if run.FinalEnergy.Total != res.FinalEnergy.Total || run.FinalEnergy.Kinetic != res.FinalEnergy.Kinetic {
		t.Errorf("final energy %+v, want %+v", run.FinalEnergy, res.FinalEnergy)
	}

	energies, err := st.LoadEnergies(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(energies) != 10 || energies[9].Tick != 9 {
		t.Errorf("expected 10 energy rows, got %d", len(energies))
	}

	traj, err := st.LoadTrajectory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(traj) != 10 {
		t.Fatalf("expected 10 snapshots, got %d", len(traj))
	}
	if traj[0].Positions[0] != -1 || traj[0].Positions[3] != 1 {
		t.Errorf("first snapshot positions = %v", traj[0].Positions)
	}
	if traj[0].Accelerations[0] != 2.0/4 {
		t.Errorf("first acceleration = %v, want 0.5", traj[0].Accelerations[0])
	}

	track := Track(traj, 1)
	if len(track) != 10 || track[0][0] != 1 {
		t.Errorf("track = %v", track[:1])
	}
}

func TestStoreAbortedRun(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	id, err := st.CreateRun(ctx, "x.txt", 0, binary())
	if err != nil {
		t.Fatal(err)
	}
	runErr := &dynamo.SimulationError{Cycle: 3, Tick: 3, Wrapped: dynamo.ErrAllocation}
	if err := st.FinishRun(ctx, id, &sim.Result{Cycles: 3}, runErr); err != nil {
		t.Fatal(err)
	}

	run, err := st.LoadRun(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusAborted || run.Error == "" {
		t.Errorf("unexpected run %+v", run)
	}
}

func TestWriterRollback(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	id, _ := st.CreateRun(ctx, "binary", 0, binary())

	w, err := st.Writer(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEnergy(dynamo.EnergyRecord{Tick: 0, Total: -1}); err != nil {
		t.Fatal(err)
	}
	if err := w.Rollback(); err != nil {
		t.Fatal(err)
	}

	energies, err := st.LoadEnergies(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(energies) != 0 {
		t.Errorf("expected rolled back energies, got %d", len(energies))
	}
}

func TestFinishRunWithoutResult(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	id, _ := st.CreateRun(ctx, "binary", 0, binary())

	w, err := st.Writer(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Rollback(); err != nil {
		t.Fatal(err)
	}
	if err := st.FinishRun(ctx, id, nil, dynamo.ErrNoPotential); err != nil {
		t.Fatal(err)
	}

	run, err := st.LoadRun(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != StatusAborted || run.Error != dynamo.ErrNoPotential.Error() {
		t.Errorf("status %q error %q", run.Status, run.Error)
	}
	if run.Cycles != 0 || run.Bodies != 2 {
		t.Errorf("unexpected run %+v", run)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty catalog, got %d", len(runs))
	}
	if _, err := st.Latest(ctx); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Latest on empty catalog: %v", err)
	}

	first, _ := st.CreateRun(ctx, "a", 0, binary())
	second, _ := st.CreateRun(ctx, "b", 0, binary())

	runs, err = st.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != second {
		t.Errorf("expected newest first, got %v", runs)
	}

	latest, err := st.Latest(ctx)
	if err != nil || latest.ID != second {
		t.Errorf("Latest = %v, %v", latest, err)
	}

	if err := st.DeleteRun(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadRun(ctx, first); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}
