package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Render.HoldFrames = 3

	sim := physics.New(2)
	sim.Elementary([3]float32{10, 10, 10}, [3]float64{0.1, 0, 0}, true)
	sim.Elementary([3]float32{20, 10, 10}, [3]float64{0, 0.1, 0}, true)

	core := dynamo.NewCore(sim, integrators.NewEuler(), compute.NewSerialBackend(), physics.NewCoulomb(1, 0.1))
	sink := NewSink(cfg)
	runner := dynamo.NewRunner(core, cfg.NewCamera(), cfg.Steps(), sink, cfg.Dt)

	m, err := NewModel(runner, sink, cfg, "anomaly")
	require.NoError(t, err)
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestKeyHoldIsReleasedWithoutRepeat(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("w"))
	require.True(t, m.input.Held(camera.Forward))

	m.releaseExpired()
	m.releaseExpired()
	assert.True(t, m.input.Held(camera.Forward))

	m = update(m, key("w"))
	m.releaseExpired()
	m.releaseExpired()
	assert.True(t, m.input.Held(camera.Forward), "a repeat should refresh the hold")

	m.releaseExpired()
	assert.False(t, m.input.Held(camera.Forward))
}

func TestUppercaseKeysMatchBindings(t *testing.T) {
	m := update(newTestModel(t), key("D"))
	assert.True(t, m.input.Held(camera.Right))
}

func TestToggleSpin(t *testing.T) {
	m := update(newTestModel(t), key("p"))
	assert.True(t, m.input.Spin)
	assert.False(t, m.input.Held(camera.ToggleSpin))

	m = update(m, key("p"))
	assert.False(t, m.input.Spin)
}

func TestTickRunsAFrame(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("w"))
	m = update(m, TickMsg(time.Now()))

	assert.Equal(t, 1, m.runner.FrameCount())
	assert.NotEqual(t, m.startCam.Pose(), m.runner.Camera().Pose())
	assert.Equal(t, 2, m.sink.stones)

	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	assert.Equal(t, 1, m.runner.FrameCount(), "paused model should not step")

	m = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, m.startCam.Pose(), m.runner.Camera().Pose())
}

func TestSpinAdvancesWorld(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("p"))
	m = update(m, TickMsg(time.Now()))
	assert.Greater(t, m.sink.spin, float32(0))
}

func TestMouseDragTurns(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, float32(3*cellWidthPx), m.input.MouseDX)

	m = update(m, TickMsg(time.Now()))
	assert.Zero(t, m.input.MouseDX)
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))

	view := m.View()
	assert.True(t, strings.Contains(view, "ANOMALY"))
	assert.True(t, strings.Contains(view, "serial"))
}

func TestResize(t *testing.T) {
	m := update(newTestModel(t), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120-panelWidth-4, m.sink.canvas.Width)
	assert.Equal(t, 38, m.sink.canvas.Height)
}

func TestNewModelRejectsForeignSink(t *testing.T) {
	cfg := config.DefaultConfig()
	core := dynamo.NewCore(physics.New(0), integrators.NewEuler(), compute.NewSerialBackend(), physics.NewCoulomb(1, 0.1))
	runner := dynamo.NewRunner(core, cfg.NewCamera(), cfg.Steps(), nil, cfg.Dt)
	_, err := NewModel(runner, nil, cfg, "x")
	assert.Error(t, err)
}
