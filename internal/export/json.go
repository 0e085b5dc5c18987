package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// RunData is the JSON document written by RunJSON.
type RunData struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	CreatedAt    time.Time          `json:"created_at"`
	Bodies       int                `json:"bodies"`
	G            float64            `json:"g"`
	Dt           float64            `json:"dt"`
	DumpInterval int                `json:"tdump"`
	TotalSteps   int                `json:"steps"`
	Masses       []float64          `json:"masses"`
	Status       string             `json:"status"`
	Metrics      map[string]float64 `json:"metrics"`
	Ticks        []int              `json:"ticks"`
	Positions    [][]float64        `json:"positions"`
	Velocities   [][]float64        `json:"velocities"`
	Energies     [][3]float64       `json:"energies"`
}

// Fill copies the snapshots and energies into d.
func (d *RunData) Fill(traj []dynamo.SystemRecord, energies []dynamo.EnergyRecord) {
	d.Ticks = make([]int, len(traj))
	d.Positions = make([][]float64, len(traj))
	d.Velocities = make([][]float64, len(traj))
	for i, rec := range traj {
		d.Ticks[i] = rec.Tick
		d.Positions[i] = rec.Positions
		d.Velocities[i] = rec.Velocities
	}
	d.Energies = make([][3]float64, len(energies))
	for i, e := range energies {
		d.Energies[i] = [3]float64{e.Kinetic, e.Potential, e.Total}
	}
}

func RunJSON(w io.Writer, d *RunData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}
