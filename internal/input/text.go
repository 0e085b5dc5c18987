package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
)

// ErrSyntax is wrapped by every parse error of the text format.
var ErrSyntax = errors.New("input: syntax error")

const headerPrefix = "#HDR"

// maxBodies is the largest N whose force buffer the integrator accepts.
const maxBodies = integrators.MaxBufferLen / dynamo.Dim

// header keys and whether they carry an integer value
var headerKeys = map[string]bool{
	"N":     true,
	"G":     false,
	"dt":    false,
	"tdump": true,
	"T":     true,
}

type lineError struct {
	line int
	msg  string
}

func (e *lineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

func (e *lineError) Unwrap() error { return ErrSyntax }

func syntaxf(line int, format string, args ...any) error {
	return &lineError{line: line, msg: fmt.Sprintf(format, args...)}
}

type textParser struct {
	headers map[string]float64
	state   *dynamo.State
	seen    []bool
}

// ParseText reads the header/body text format. The returned state has been
// checked with Validate and CheckPreconditions.
func ParseText(r io.Reader) (*dynamo.State, error) {
	p := &textParser{headers: make(map[string]float64, len(headerKeys))}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if err := p.header(lineNo, line); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.body(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if p.state == nil {
		if missing := p.missingHeaders(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing headers %s", ErrSyntax, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("%w: no bodies", ErrSyntax)
	}
	for i, ok := range p.seen {
		if !ok {
			return nil, fmt.Errorf("%w: body %d missing", ErrSyntax, i+1)
		}
	}

	if err := p.state.CheckPreconditions(); err != nil {
		return nil, err
	}
	return p.state, nil
}

func (p *textParser) header(lineNo int, line string) error {
	fields := strings.Fields(line)
	if fields[0] != headerPrefix {
		return nil
	}
	if len(fields) < 3 {
		return syntaxf(lineNo, "header needs a key and a value")
	}
	key := fields[1]
	integer, known := headerKeys[key]
	if !known {
		return nil
	}
	if p.state != nil {
		return syntaxf(lineNo, "header %s after body lines", key)
	}
	if _, dup := p.headers[key]; dup {
		return nil
	}

	var v float64
	if integer {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return syntaxf(lineNo, "header %s: %q is not an integer", key, fields[2])
		}
		if key == "N" && n > maxBodies {
			return syntaxf(lineNo, "header N: %d bodies exceeds the limit of %d", n, maxBodies)
		}
		v = float64(n)
	} else {
		f, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return syntaxf(lineNo, "header %s: %q is not a number", key, fields[2])
		}
		v = f
	}
	if !(v > 0) {
		return syntaxf(lineNo, "header %s must be positive, got %s", key, fields[2])
	}
	p.headers[key] = v
	return nil
}

func (p *textParser) missingHeaders() []string {
	var missing []string
	for _, k := range []string{"N", "G", "dt", "tdump", "T"} {
		if _, ok := p.headers[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func (p *textParser) begin(lineNo int) error {
	if missing := p.missingHeaders(); len(missing) > 0 {
		return syntaxf(lineNo, "body line before headers %s", strings.Join(missing, ", "))
	}
	n := int(p.headers["N"])
	s := dynamo.NewState(n)
	s.G = p.headers["G"]
	s.Dt = p.headers["dt"]
	s.DumpInterval = int(p.headers["tdump"])
	s.TotalSteps = int(p.headers["T"])
	p.state = s
	p.seen = make([]bool, n)
	return nil
}

func (p *textParser) body(lineNo int, line string) error {
	if p.state == nil {
		if err := p.begin(lineNo); err != nil {
			return err
		}
	}

	fields := strings.Fields(line)
	if want := 2 + 2*dynamo.Dim; len(fields) != want {
		return syntaxf(lineNo, "body line has %d fields, want %d", len(fields), want)
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return syntaxf(lineNo, "body index %q is not an integer", fields[0])
	}
	if idx < 1 || idx > p.state.Bodies {
		return syntaxf(lineNo, "body index %d outside 1..%d", idx, p.state.Bodies)
	}
	if p.seen[idx-1] {
		return syntaxf(lineNo, "body %d given twice", idx)
	}

	vals := make([]float64, len(fields)-1)
	for k, f := range fields[1:] {
		if vals[k], err = strconv.ParseFloat(f, 64); err != nil {
			return syntaxf(lineNo, "body %d: %q is not a number", idx, f)
		}
	}

	i := idx - 1
	p.state.Masses[i] = vals[0]
	pos, vel := p.state.Body(i)
	copy(pos, vals[1:1+dynamo.Dim])
	copy(vel, vals[1+dynamo.Dim:])
	p.seen[i] = true
	return nil
}
