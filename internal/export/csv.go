package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// TrajectoryCSV writes one row per snapshot: tick, then position, velocity
// and acceleration of every body.
func TrajectoryCSV(w io.Writer, traj []dynamo.SystemRecord) error {
	cw := csv.NewWriter(w)
	if len(traj) == 0 {
		cw.Flush()
		return cw.Error()
	}

	bodies := len(traj[0].Positions) / dynamo.Dim
	header := []string{"tick"}
	for _, field := range []string{"x", "v", "a"} {
		for i := 0; i < bodies; i++ {
			for _, axis := range []string{"x", "y", "z"} {
				header = append(header, fmt.Sprintf("%s%s%d", field, axis, i+1))
			}
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for _, rec := range traj {
		row = append(row[:0], strconv.Itoa(rec.Tick))
		for _, vals := range [][]float64{rec.Positions, rec.Velocities, rec.Accelerations} {
			for _, v := range vals {
				row = append(row, formatFloat(v))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func EnergiesCSV(w io.Writer, energies []dynamo.EnergyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tick", "kinetic", "potential", "total"}); err != nil {
		return err
	}
	for _, e := range energies {
		if err := cw.Write([]string{strconv.Itoa(e.Tick), formatFloat(e.Kinetic), formatFloat(e.Potential), formatFloat(e.Total)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
