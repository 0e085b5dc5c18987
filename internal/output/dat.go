package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultTrajectoryFile = "traj.dat"
	DefaultEnergyFile     = "energies.dat"
)

// Header describes the system at the top of both output files.
type Header struct {
	Bodies int
	G      float64
	Masses []float64
	Banner string
}

// DatWriter writes the whitespace separated trajectory and energy files.
type DatWriter struct {
	system  *bufio.Writer
	energy  *bufio.Writer
	closers []io.Closer
	closed  bool
}

func NewDatWriter(system, energy io.Writer, h Header) (*DatWriter, error) {
	w := &DatWriter{
		system: bufio.NewWriter(system),
		energy: bufio.NewWriter(energy),
	}
	if err := writeHeader(w.system, h, systemFormat()); err != nil {
		return nil, err
	}
	if err := writeHeader(w.energy, h, "kinetic energy\t potential energy\t total energy"); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateDat creates both files in dir. Nothing is left open on failure.
func CreateDat(dir, trajName, energyName string, h Header) (*DatWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	sys, err := os.Create(filepath.Join(dir, trajName))
	if err != nil {
		return nil, fmt.Errorf("open trajectory file: %w", err)
	}
	en, err := os.Create(filepath.Join(dir, energyName))
	if err != nil {
		sys.Close()
		return nil, fmt.Errorf("open energy file: %w", err)
	}

	w, err := NewDatWriter(sys, en, h)
	if err != nil {
		sys.Close()
		en.Close()
		return nil, err
	}
	w.closers = []io.Closer{sys, en}
	return w, nil
}

func systemFormat() string {
	var b strings.Builder
	b.WriteString("time\t")
	for _, col := range []struct{ label, prefix string }{
		{"coords", "x"}, {"velocities", "v"}, {"accelerations", "a"},
	} {
		fmt.Fprintf(&b, " %s: (", col.label)
		for k := 0; k < dynamo.Dim; k++ {
			fmt.Fprintf(&b, " %s%d", col.prefix, k)
		}
		b.WriteString(")\t")
	}
	return strings.TrimSuffix(b.String(), "\t")
}

func writeHeader(w io.Writer, h Header, format string) error {
	var b strings.Builder
	if h.Banner != "" {
		fmt.Fprintf(&b, "#%s\n", h.Banner)
	}
	fmt.Fprintf(&b, "#HDR N\t%d\n", h.Bodies)
	fmt.Fprintf(&b, "#HDR G\t%f\n", h.G)
	b.WriteString("#HDR m\t")
	for _, m := range h.Masses {
		fmt.Fprintf(&b, "%f ", m)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "#format:\t %s\n", format)
	_, err := io.WriteString(w, b.String())
	return err
}

func (w *DatWriter) WriteSystem(rec dynamo.SystemRecord) error {
	if _, err := fmt.Fprintf(w.system, "%f ", float64(rec.Tick)); err != nil {
		return err
	}
	for _, col := range [][]float64{rec.Positions, rec.Velocities, rec.Accelerations} {
		for _, v := range col {
			if _, err := fmt.Fprintf(w.system, "%.16f ", v); err != nil {
				return err
			}
		}
	}
	_, err := w.system.WriteString("\n")
	return err
}

func (w *DatWriter) WriteEnergy(rec dynamo.EnergyRecord) error {
	_, err := fmt.Fprintf(w.energy, "%16.9f %16.9f %16.9f\n", rec.Kinetic, rec.Potential, rec.Total)
	return err
}

// Close flushes both files and closes them if CreateDat opened them. Only
// the first call does any work.
func (w *DatWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := errors.Join(w.system.Flush(), w.energy.Flush())
	for _, c := range w.closers {
		err = errors.Join(err, c.Close())
	}
	return err
}

// ReadEnergies parses an energy file written by DatWriter. Header and
// comment lines are skipped; the returned records are numbered in order.
func ReadEnergies(r io.Reader) ([]dynamo.EnergyRecord, error) {
	var out []dynamo.EnergyRecord
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 columns, got %d", line, len(fields))
		}
		var vals [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}
		out = append(out, dynamo.EnergyRecord{Tick: len(out), Kinetic: vals[0], Potential: vals[1], Total: vals[2]})
	}
	return out, sc.Err()
}
