package input

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Document is the YAML form of an initial state.
type Document struct {
	G            float64 `yaml:"g"`
	Dt           float64 `yaml:"dt"`
	DumpInterval int     `yaml:"tdump"`
	TotalSteps   int     `yaml:"steps"`
	Bodies       []Body  `yaml:"bodies"`
}

type Body struct {
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
}

func ParseYAML(r io.Reader) (*dynamo.State, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.State()
}

// State converts the document into a checked state.
func (d *Document) State() (*dynamo.State, error) {
	if len(d.Bodies) == 0 {
		return nil, fmt.Errorf("%w: no bodies", ErrSyntax)
	}
	s := dynamo.NewState(len(d.Bodies))
	s.G = d.G
	s.Dt = d.Dt
	s.DumpInterval = d.DumpInterval
	s.TotalSteps = d.TotalSteps
	for i, b := range d.Bodies {
		s.Masses[i] = b.Mass
		pos, vel := s.Body(i)
		copy(pos, b.Position[:])
		copy(vel, b.Velocity[:])
	}
	if err := s.CheckPreconditions(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromState is the inverse of State.
func FromState(s *dynamo.State) *Document {
	d := &Document{
		G:            s.G,
		Dt:           s.Dt,
		DumpInterval: s.DumpInterval,
		TotalSteps:   s.TotalSteps,
		Bodies:       make([]Body, s.Bodies),
	}
	for i := range d.Bodies {
		pos, vel := s.Body(i)
		d.Bodies[i].Mass = s.Masses[i]
		copy(d.Bodies[i].Position[:], pos)
		copy(d.Bodies[i].Velocity[:], vel)
	}
	return d
}

func WriteYAML(w io.Writer, s *dynamo.State) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromState(s)); err != nil {
		return err
	}
	return enc.Close()
}
