package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Load reads an initial state from path, choosing the format by extension.
func Load(path string) (*dynamo.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s *dynamo.State
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(f)
	default:
		s, err = ParseText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
