package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailLength     = 200
	maxSpeed        = 64
)

type TickMsg time.Time

// Model is the live view of a running driver. Each frame runs Speed dump
// cycles and draws the latest snapshot.
type Model struct {
	drv    *sim.Driver
	feed   *Feed
	title  string
	canvas *Canvas
	camera *Camera
	trails [][]r3.Vec
	theme  int

	Speed    int
	running  bool
	showHelp bool
	err      error
}

// NewModel builds a live view. feed must be a sink of drv.
func NewModel(drv *sim.Driver, feed *Feed, title string) Model {
	s := drv.State()
	cam := NewCamera(0)
	for i := 0; i < s.Bodies; i++ {
		pos, _ := s.Body(i)
		cam.Fit(r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]})
	}
	return Model{
		drv:     drv,
		feed:    feed,
		title:   title,
		canvas:  NewCanvas(width, height),
		camera:  cam,
		trails:  make([][]r3.Vec, s.Bodies),
		Speed:   1,
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Err is the error that stopped the driver, if any.
func (m Model) Err() error { return m.err }

// Update handles input events and advances the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.Speed = min(maxSpeed, m.Speed*2)
		case "-", "_":
			m.Speed = max(1, m.Speed/2)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "]":
			m.camera.ZoomIn()
		case "[":
			m.camera.ZoomOut()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "c":
			for i := range m.trails {
				m.trails[i] = m.trails[i][:0]
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.Speed && !m.drv.Done(); i++ {
		if err := m.drv.Cycle(); err != nil {
			m.err = err
			return
		}
		m.record()
	}
	if m.drv.Done() {
		m.running = false
	}
}

func (m *Model) record() {
	rec, ok := m.feed.Last()
	if !ok {
		return
	}
	for i := range m.trails {
		p := rec.Positions[i*dynamo.Dim : i*dynamo.Dim+dynamo.Dim]
		v := r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		m.camera.Fit(v)
		m.trails[i] = append(m.trails[i], v)
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	sw, sh := c.SubWidth(), c.SubHeight()
	for i, trail := range m.trails {
		c.Pen(i)
		for k := 1; k < len(trail); k++ {
			x0, y0 := m.camera.Project(trail[k-1], sw, sh)
			x1, y1 := m.camera.Project(trail[k], sw, sh)
			c.DrawLine(x0, y0, x1, y1)
		}
		if len(trail) > 0 {
			x, y := m.camera.Project(trail[len(trail)-1], sw, sh)
			c.Dot(x, y)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("ABORTED")
	case m.drv.Done():
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	default:
		return statusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := Themes[m.theme]
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(theme.Bodies))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	totals := m.feed.Totals()
	if len(totals) > 1 {
		chart := asciigraph.Plot(totals, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	st := m.drv.State()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.drv.Tick()))
	row("Time", fmt.Sprintf("%.4g", float64(m.drv.Tick())*float64(st.DumpInterval)*st.Dt))
	row("Bodies", fmt.Sprintf("%d", st.Bodies))
	row("Speed", fmt.Sprintf("%dx", m.Speed))
	if es := m.feed.Energies(); len(es) > 0 {
		last := es[len(es)-1]
		row("Kinetic", fmt.Sprintf("%.9g", last.Kinetic))
		row("Potential", fmt.Sprintf("%.9g", last.Potential))
		row("Total", fmt.Sprintf("%.9g", last.Total))
		if first := es[0].Total; first != 0 {
			row("Drift", fmt.Sprintf("%.3e", math.Abs((last.Total-first)/first)))
		}
	}
	if cycles := m.drv.Cycles(); cycles > 0 {
		row("Progress", ProgressBar(float64(m.drv.Tick())/float64(cycles), 20))
	}
	if m.err != nil {
		s.WriteString("\n" + statusFailed.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause +/-:Speed Q:Quit\nT:Theme  ?:Help  C:Clear trails"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
  Space    pause or resume
  + / -    double or halve cycles per frame
  x y z    rotate the view (shift reverses)
  [ / ]    zoom out or in
  c        clear trails
  t        cycle themes
  q        quit
` + "\n" + mainView
	}
	return mainView
}
