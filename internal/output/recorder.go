package output

import "github.com/san-kum/gravsim/internal/dynamo"

// Recorder keeps snapshots in memory. With a positive Limit only the most
// recent Limit records of each kind are retained.
type Recorder struct {
	Limit    int
	Systems  []dynamo.SystemRecord
	Energies []dynamo.EnergyRecord
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{Limit: limit}
}

func (r *Recorder) WriteSystem(rec dynamo.SystemRecord) error {
	rec.Positions = append([]float64(nil), rec.Positions...)
	rec.Velocities = append([]float64(nil), rec.Velocities...)
	rec.Accelerations = append([]float64(nil), rec.Accelerations...)
	r.Systems = append(r.Systems, rec)
	if r.Limit > 0 && len(r.Systems) > r.Limit {
		r.Systems = r.Systems[len(r.Systems)-r.Limit:]
	}
	return nil
}

func (r *Recorder) WriteEnergy(rec dynamo.EnergyRecord) error {
	r.Energies = append(r.Energies, rec)
	if r.Limit > 0 && len(r.Energies) > r.Limit {
		r.Energies = r.Energies[len(r.Energies)-r.Limit:]
	}
	return nil
}

// TotalEnergies returns the total energy column.
func (r *Recorder) TotalEnergies() []float64 {
	out := make([]float64, len(r.Energies))
	for i, e := range r.Energies {
		out[i] = e.Total
	}
	return out
}

func (r *Recorder) Reset() {
	r.Systems = nil
	r.Energies = nil
}

type multi []dynamo.Sink

// Multi fans snapshots out to every sink in order, stopping at the first error.
func Multi(sinks ...dynamo.Sink) dynamo.Sink {
	return multi(sinks)
}

func (m multi) WriteSystem(rec dynamo.SystemRecord) error {
	for _, s := range m {
		if err := s.WriteSystem(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) WriteEnergy(rec dynamo.EnergyRecord) error {
	for _, s := range m {
		if err := s.WriteEnergy(rec); err != nil {
			return err
		}
	}
	return nil
}
