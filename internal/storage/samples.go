package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Writer is a dynamo.Sink that stores snapshots of one run inside a single
// transaction. Commit makes them visible; Rollback discards them.
type Writer struct {
	ctx    context.Context
	tx     *sql.Tx
	runID  string
	system *sql.Stmt
	energy *sql.Stmt
}

func (s *Store) Writer(ctx context.Context, runID string) (*Writer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	system, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots (run_id, tick, body, x, y, z, vx, vy, vz, ax, ay, az)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	energy, err := tx.PrepareContext(ctx, `
		INSERT INTO energies (run_id, tick, kinetic, potential, total) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return &Writer{ctx: ctx, tx: tx, runID: runID, system: system, energy: energy}, nil
}

func (w *Writer) WriteSystem(rec dynamo.SystemRecord) error {
	n := len(rec.Positions) / dynamo.Dim
	for i := 0; i < n; i++ {
		p := rec.Positions[i*dynamo.Dim : i*dynamo.Dim+dynamo.Dim]
		v := rec.Velocities[i*dynamo.Dim : i*dynamo.Dim+dynamo.Dim]
		a := rec.Accelerations[i*dynamo.Dim : i*dynamo.Dim+dynamo.Dim]
		_, err := w.system.ExecContext(w.ctx, w.runID, rec.Tick, i,
			p[0], p[1], p[2], v[0], v[1], v[2], a[0], a[1], a[2])
		if err != nil {
			return fmt.Errorf("store snapshot %d: %w", rec.Tick, err)
		}
	}
	return nil
}

func (w *Writer) WriteEnergy(rec dynamo.EnergyRecord) error {
	_, err := w.energy.ExecContext(w.ctx, w.runID, rec.Tick, rec.Kinetic, rec.Potential, rec.Total)
	if err != nil {
		return fmt.Errorf("store energy %d: %w", rec.Tick, err)
	}
	return nil
}

func (w *Writer) Commit() error {
	return w.tx.Commit()
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback()
}

func (s *Store) LoadEnergies(ctx context.Context, id string) ([]dynamo.EnergyRecord, error) {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, kinetic, potential, total FROM energies WHERE run_id = ? ORDER BY tick`, full)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dynamo.EnergyRecord, 0)
	for rows.Next() {
		var e dynamo.EnergyRecord
		if err := rows.Scan(&e.Tick, &e.Kinetic, &e.Potential, &e.Total); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadTrajectory returns the snapshots of a run ordered by tick. Each
// record owns its slices.
func (s *Store) LoadTrajectory(ctx context.Context, id string) ([]dynamo.SystemRecord, error) {
	run, err := s.LoadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, body, x, y, z, vx, vy, vz, ax, ay, az
		FROM snapshots WHERE run_id = ? ORDER BY tick, body`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	n := run.Bodies * dynamo.Dim
	out := make([]dynamo.SystemRecord, 0)
	for rows.Next() {
		var tick, body int
		var p, v, a [dynamo.Dim]float64
		if err := rows.Scan(&tick, &body, &p[0], &p[1], &p[2], &v[0], &v[1], &v[2], &a[0], &a[1], &a[2]); err != nil {
			return nil, err
		}
		if body < 0 || body >= run.Bodies {
			return nil, fmt.Errorf("run %s: snapshot body %d out of range", run.ShortID(), body)
		}
		if len(out) == 0 || out[len(out)-1].Tick != tick {
			out = append(out, dynamo.SystemRecord{
				Tick:          tick,
				Positions:     make([]float64, n),
				Velocities:    make([]float64, n),
				Accelerations: make([]float64, n),
			})
		}
		rec := &out[len(out)-1]
		off := body * dynamo.Dim
		copy(rec.Positions[off:], p[:])
		copy(rec.Velocities[off:], v[:])
		copy(rec.Accelerations[off:], a[:])
	}
	return out, rows.Err()
}

// Track returns the positions of one body over a trajectory.
func Track(traj []dynamo.SystemRecord, body int) [][dynamo.Dim]float64 {
	out := make([][dynamo.Dim]float64, 0, len(traj))
	for _, rec := range traj {
		var p [dynamo.Dim]float64
		copy(p[:], rec.Positions[body*dynamo.Dim:])
		out = append(out, p)
	}
	return out
}
