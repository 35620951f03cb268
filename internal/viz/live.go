package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/mesh"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 42
	historyCapacity = 600

	// Rough size of a terminal cell in pixels, used to turn mouse drags
	// into the pointer deltas the camera expects.
	cellWidthPx  = 8
	cellHeightPx = 16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(panelWidth)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// termSink rasterizes each frame into the canvas.
type termSink struct {
	canvas *Canvas
	lens   camera.Lens
	scale  float32
	spin   float32
	stones int
	faces  int
}

func (s *termSink) Draw(stones []mesh.Stone, pose camera.Pose, frame int) error {
	s.canvas.Clear()
	dw, dh := s.canvas.Dots()
	faces := Project(stones, Scene{
		Pose:   pose,
		Lens:   s.lens,
		Model:  WorldModel(s.scale, s.spin),
		Width:  float32(dw),
		Height: float32(dh),
	})
	for _, f := range faces {
		color := TermColor(Shade(f.Color, 0.5+0.5*f.Intensity))
		s.canvas.FillTriangle(f.Points[0], f.Points[1], f.Points[2], f.Depth, f.Intensity, color)
	}
	s.stones, s.faces = len(stones), len(faces)
	return nil
}

// Model drives a dynamo.Runner from the Bubble Tea event loop.
type Model struct {
	runner    *dynamo.Runner
	sink      *termSink
	startCam  camera.Camera
	bindings  map[string]camera.Action
	title     string
	fps       int
	spinRate  float32
	holdLimit int

	input camera.Input
	holds [camera.NumActions]int

	dragging     bool
	lastX, lastY int

	paused bool
	err    error
}

// NewSink returns the sink a terminal Model draws through. Build the
// runner with it and hand both to NewModel.
func NewSink(cfg *config.Config) dynamo.Sink {
	return &termSink{
		canvas: NewCanvas(width-panelWidth, height),
		lens:   cfg.Lens(),
		scale:  cfg.Render.WorldScale,
	}
}

func NewModel(runner *dynamo.Runner, sink dynamo.Sink, cfg *config.Config, title string) (Model, error) {
	ts, ok := sink.(*termSink)
	if !ok {
		return Model{}, fmt.Errorf("viz: sink %T was not made by NewSink", sink)
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return Model{}, err
	}
	runner.SetHistoryLimit(historyCapacity)

	return Model{
		runner:    runner,
		sink:      ts,
		startCam:  runner.Camera(),
		bindings:  bindings,
		title:     title,
		fps:       cfg.Render.FPS,
		spinRate:  cfg.Render.SpinRate,
		holdLimit: cfg.Render.HoldFrames,
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err is the sink error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := strings.ToLower(msg.String()); key {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "backspace":
			m.runner.SetCamera(m.startCam)
		default:
			if a, ok := m.bindings[key]; ok {
				m.press(a)
			}
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-4, 20)
		h := max(msg.Height-2, 8)
		m.sink.canvas = NewCanvas(w, h)
	case TickMsg:
		if !m.paused {
			if err := m.frame(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// press starts or refreshes the emulated hold of a. The toggle only needs
// the press edge.
func (m *Model) press(a camera.Action) {
	if a == camera.ToggleSpin {
		m.input.Press(a)
		m.input.Release(a)
		return
	}
	m.input.Press(a)
	m.holds[a] = m.holdLimit
}

// releaseExpired counts down every emulated hold and releases the keys that
// did not repeat in time.
func (m *Model) releaseExpired() {
	for a := range m.holds {
		if m.holds[a] == 0 {
			continue
		}
		m.holds[a]--
		if m.holds[a] == 0 {
			m.input.Release(camera.Action(a))
		}
	}
}

func (m *Model) mouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = msg.Button == tea.MouseButtonLeft
	case tea.MouseActionMotion:
		if m.dragging {
			m.input.Look(float32(msg.X-m.lastX)*cellWidthPx, float32(msg.Y-m.lastY)*cellHeightPx)
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
	m.lastX, m.lastY = msg.X, msg.Y
}

func (m *Model) frame() error {
	if m.input.Spin {
		m.sink.spin += m.spinRate / float32(m.fps)
	}
	err := m.runner.Frame(m.input)
	m.input.ClearMotion()
	m.releaseExpired()
	return err
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.sink.canvas.Render())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	if m.input.Spin {
		status += "  ↻"
	}
	s.WriteString(status + "\n")

	res := m.runner.Result()
	if ke := res.Series["kinetic_energy"]; len(ke) > 1 {
		chart := asciigraph.Plot(ke, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	core := m.runner.Core()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f", core.Time()))
	row("Frame", fmt.Sprintf("%d", m.runner.FrameCount()))
	row("Stones", fmt.Sprintf("%d", m.sink.stones))
	row("Faces", fmt.Sprintf("%d", m.sink.faces))
	row("Backend", core.Backend().Name())
	row("Integrator", core.Stepper().Name())
	if drift, ok := res.Series["energy_drift"]; ok && len(drift) > 0 {
		row("Drift", fmt.Sprintf("%.2e", drift[len(drift)-1]))
	}

	pose := m.runner.Camera().Pose()
	row("Eye", fmt.Sprintf("%.2f %.2f %.2f", pose.Eye[0], pose.Eye[1], pose.Eye[2]))

	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nWS AD RF: move\nXC TG QE: turn\nP: spin  SP: pause\nBKSP: home  ESC: quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
