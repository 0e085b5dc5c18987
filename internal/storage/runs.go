package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusAborted = "aborted"
)

type Run struct {
	ID           string
	Source       string
	CreatedAt    time.Time
	Bodies       int
	G            float64
	Dt           float64
	DumpInterval int
	TotalSteps   int
	Seed         int64
	Masses       []float64

	Status       string
	Cycles       int
	Steps        int
	SkippedSteps int
	FinalEnergy  dynamo.EnergyRecord
	Error        string
	Metrics      map[string]float64
}

// ShortID is the first eight characters of the run id.
func (r *Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// InitialState rebuilds a state from the run parameters and one of its
// snapshots.
func (r *Run) InitialState(rec dynamo.SystemRecord) *dynamo.State {
	s := dynamo.NewState(r.Bodies)
	s.G, s.Dt, s.DumpInterval, s.TotalSteps = r.G, r.Dt, r.DumpInterval, r.TotalSteps
	copy(s.Masses, r.Masses)
	copy(s.Positions, rec.Positions)
	copy(s.Velocities, rec.Velocities)
	return s
}

// CreateRun records the parameters of a run that is about to start and
// returns its id. source names the input file or preset.
func (s *Store) CreateRun(ctx context.Context, source string, seed int64, st *dynamo.State) (string, error) {
	id := uuid.NewString()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, source, created_at, bodies, g, dt, dump_interval, total_steps, seed, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, source, now(), st.Bodies, st.G, st.Dt, st.DumpInterval, st.TotalSteps, seed, StatusRunning)
		if err != nil {
			return err
		}
		for i, m := range st.Masses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_bodies (run_id, body, mass) VALUES (?, ?, ?)`, id, i, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// FinishRun stores the outcome of a run. runErr is the error returned by
// the driver, if any.
func (s *Store) FinishRun(ctx context.Context, id string, res *sim.Result, runErr error) error {
	status, msg := StatusDone, sql.NullString{}
	if runErr != nil {
		status = StatusAborted
		msg = sql.NullString{String: runErr.Error(), Valid: true}
	}
	if res == nil {
		// the run never started; parameters and bodies stay for inspection
		if _, err := s.db.ExecContext(ctx, `UPDATE runs SET status = ?, error = ? WHERE id = ?`,
			status, msg, id); err != nil {
			return fmt.Errorf("finish run %s: %w", id, err)
		}
		return nil
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE runs SET status = ?, cycles = ?, steps = ?, skipped_steps = ?,
				final_kinetic = ?, final_potential = ?, final_total = ?, error = ?
			WHERE id = ?`,
			status, res.Cycles, res.StepsTaken, res.SkippedSteps,
			res.FinalEnergy.Kinetic, res.FinalEnergy.Potential, res.FinalEnergy.Total, msg, id)
		if err != nil {
			return err
		}
		for name, v := range res.Metrics {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)`, id, name, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	return nil
}

const runColumns = `id, source, created_at, bodies, g, dt, dump_interval, total_steps, seed,
	status, cycles, steps, skipped_steps, final_kinetic, final_potential, final_total, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		r        Run
		ek, ep   sql.NullFloat64
		et       sql.NullFloat64
		errorMsg sql.NullString
	)
	err := row.Scan(&r.ID, &r.Source, &r.CreatedAt, &r.Bodies, &r.G, &r.Dt, &r.DumpInterval, &r.TotalSteps,
		&r.Seed, &r.Status, &r.Cycles, &r.Steps, &r.SkippedSteps, &ek, &ep, &et, &errorMsg)
	if err != nil {
		return nil, err
	}
	r.FinalEnergy = dynamo.EnergyRecord{Kinetic: ek.Float64, Potential: ep.Float64, Total: et.Float64}
	r.Error = errorMsg.String
	return &r, nil
}

// ListRuns returns every run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun returns a run with its masses and metrics. id may be any unique
// prefix of the full id.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, full))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT mass FROM run_bodies WHERE run_id = ? ORDER BY body`, full)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		r.Masses = append(r.Masses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.QueryContext(ctx, `SELECT name, value FROM run_metrics WHERE run_id = ?`, full)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	r.Metrics = make(map[string]float64)
	for mrows.Next() {
		var (
			name string
			v    float64
		)
		if err := mrows.Scan(&name, &v); err != nil {
			return nil, err
		}
		r.Metrics[name] = v
	}
	return r, mrows.Err()
}

// resolve maps an id prefix to the full run id.
func (s *Store) resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id %s is ambiguous", prefix)
	}
}

// DeleteRun removes a run and all its samples.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, full)
	return err
}

// Latest returns the most recent run.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.LoadRun(ctx, id)
}
