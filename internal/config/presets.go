package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

type preset struct {
	description string
	build       func() *dynamo.State
}

var presets = map[string]preset{
	"binary": {
		description: "two equal masses on a circular orbit",
		build: func() *dynamo.State {
			s := dynamo.NewState(2)
			s.G, s.Dt, s.DumpInterval, s.TotalSteps = 1, 1e-3, 10, 20000
			copy(s.Masses, []float64{1, 1})
			copy(s.Positions, []float64{-1, 0, 0, 1, 0, 0})
			copy(s.Velocities, []float64{0, -0.5, 0, 0, 0.5, 0})
			return s
		},
	},
	"figure8": {
		description: "three equal masses chasing each other on a figure eight",
		build: func() *dynamo.State {
			s := dynamo.NewState(3)
			s.G, s.Dt, s.DumpInterval, s.TotalSteps = 1, 1e-3, 10, 20000
			copy(s.Masses, []float64{1, 1, 1})
			copy(s.Positions, []float64{
				-0.97000436, 0.24308753, 0,
				0.97000436, -0.24308753, 0,
				0, 0, 0,
			})
			copy(s.Velocities, []float64{
				0.466203685, 0.43236573, 0,
				0.466203685, 0.43236573, 0,
				-0.93240737, -0.86473146, 0,
			})
			return s
		},
	},
	"sun_earth_moon": {
		description: "sun, earth and moon in AU, years and solar masses",
		build: func() *dynamo.State {
			const (
				mEarth = 3.0034e-6
				mMoon  = 3.694e-8
				rMoon  = 0.00257
			)
			g := 4 * math.Pi * math.Pi
			vEarth := math.Sqrt(g)
			vMoon := vEarth + math.Sqrt(g*mEarth/rMoon)

			s := dynamo.NewState(3)
			s.G, s.Dt, s.DumpInterval, s.TotalSteps = g, 1e-4, 100, 10000
			copy(s.Masses, []float64{1, mEarth, mMoon})
			copy(s.Positions, []float64{0, 0, 0, 1, 0, 0, 1 + rMoon, 0, 0})
			copy(s.Velocities, []float64{0, 0, 0, 0, vEarth, 0, 0, vMoon, 0})
			return s
		},
	},
	"single": {
		description: "one body at rest",
		build: func() *dynamo.State {
			s := dynamo.NewState(1)
			s.G, s.Dt, s.DumpInterval, s.TotalSteps = 1, 1e-2, 1, 10
			s.Masses[0] = 1
			return s
		},
	},
}

// Preset returns a fresh initial state for name, moved into the
// centre-of-mass frame.
func Preset(name string) (*dynamo.State, error) {
	p, ok := presets[name]
	if !ok {
		if hint := SuggestPreset(name); hint != "" {
			return nil, fmt.Errorf("unknown preset %q, did you mean %q?", name, hint)
		}
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	s := p.build()
	toCentreOfMassFrame(s)
	if err := s.CheckPreconditions(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return s, nil
}

func toCentreOfMassFrame(s *dynamo.State) {
	vcm := physics.CentreOfMassVelocity(s.Velocities, s.Masses)
	for i := 0; i < s.Bodies; i++ {
		_, vel := s.Body(i)
		vel[0] -= vcm.X
		vel[1] -= vcm.Y
		vel[2] -= vcm.Z
	}
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PresetDescription(name string) string {
	return presets[name].description
}

// SuggestPreset returns the preset name closest to name, or "" when nothing
// is within three edits.
func SuggestPreset(name string) string {
	best, bestDist := "", 4
	for _, candidate := range ListPresets() {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
