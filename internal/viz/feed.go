package viz

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Feed is a sink that keeps what the live view needs: the latest
// snapshot and a bounded history of energies.
type Feed struct {
	capacity int
	last     dynamo.SystemRecord
	energies []dynamo.EnergyRecord
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = historyCapacity
	}
	return &Feed{capacity: capacity}
}

func (f *Feed) WriteSystem(rec dynamo.SystemRecord) error {
	f.last.Tick = rec.Tick
	f.last.Positions = append(f.last.Positions[:0], rec.Positions...)
	f.last.Velocities = append(f.last.Velocities[:0], rec.Velocities...)
	f.last.Accelerations = append(f.last.Accelerations[:0], rec.Accelerations...)
	return nil
}

func (f *Feed) WriteEnergy(rec dynamo.EnergyRecord) error {
	f.energies = append(f.energies, rec)
	if len(f.energies) > f.capacity {
		f.energies = f.energies[1:]
	}
	return nil
}

// Last returns the most recent snapshot. ok is false before the first one.
func (f *Feed) Last() (rec dynamo.SystemRecord, ok bool) {
	return f.last, f.last.Positions != nil
}

func (f *Feed) Energies() []dynamo.EnergyRecord { return f.energies }

// Totals returns the total energy history.
func (f *Feed) Totals() []float64 {
	out := make([]float64, len(f.energies))
	for i, e := range f.energies {
		out[i] = e.Total
	}
	return out
}
