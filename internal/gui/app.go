package gui

import (
	"fmt"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	historyLimit = 200
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// App drives a dynamo.Runner from a raylib window. Unlike the terminal the
// window reports real key releases, so held keys map straight onto Input.
type App struct {
	runner *dynamo.Runner
	sink   *windowSink
	start  camera.Camera
	keys   map[int32]camera.Action
	lens   camera.Lens
	title  string

	scale    float32
	spin     float32
	spinRate float32

	input   camera.Input
	running bool
	faces   int
	log     *log.Logger
}

// NewSink returns the sink a window App draws through.
func NewSink() dynamo.Sink {
	return &windowSink{}
}

func NewApp(runner *dynamo.Runner, sink dynamo.Sink, cfg *config.Config, title string) (*App, error) {
	ws, ok := sink.(*windowSink)
	if !ok {
		return nil, fmt.Errorf("gui: sink %T was not made by NewSink", sink)
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}
	keys, err := keymap(bindings)
	if err != nil {
		return nil, err
	}
	runner.SetHistoryLimit(historyLimit)

	return &App{
		runner:   runner,
		sink:     ws,
		start:    runner.Camera(),
		keys:     keys,
		lens:     cfg.Lens(),
		title:    title,
		scale:    cfg.Render.WorldScale,
		spinRate: cfg.Render.SpinRate,
		running:  true,
		log:      log.New(os.Stderr, "anomaly: ", log.LstdFlags),
	}, nil
}

// initWindow opens the window at the configured frame rate and frees the
// escape key from raylib's default close handling.
func initWindow(title string, fps int) {
	rl.InitWindow(windowWidth, windowHeight, title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed or a frame fails.
func Run(runner *dynamo.Runner, sink dynamo.Sink, cfg *config.Config, title string) error {
	app, err := NewApp(runner, sink, cfg, title)
	if err != nil {
		return err
	}
	initWindow(title, cfg.Render.FPS)
	defer rl.CloseWindow()

	app.log.Printf("window open: %d stones, backend %s", runner.Core().Simulation().ActiveCount(), runner.Core().Backend().Name())
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyEscape) {
			return nil
		}
		if err := a.Update(); err != nil {
			a.log.Printf("stopping: %v", err)
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) Update() error {
	for k, action := range a.keys {
		if rl.IsKeyPressed(k) {
			a.input.Press(action)
		}
		if rl.IsKeyReleased(k) {
			a.input.Release(action)
		}
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		a.input.Look(delta.X, delta.Y)
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		a.runner.SetCamera(a.start)
	}

	defer a.input.ClearMotion()
	if !a.running {
		return nil
	}
	if a.input.Spin {
		a.spin += a.spinRate * rl.GetFrameTime()
	}
	return a.runner.Frame(a.input)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(camera3D(a.sink.pose, a.lens))
	a.faces = a.RenderStones()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	drawText(a.title, 30, 30, 24, ColSelect)
	core := a.runner.Core()
	drawText(fmt.Sprintf(":: %s / %s", core.Backend().Name(), core.Stepper().Name()), 160, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.running {
		status = "PAUSED"
		col = ColTextDim
	}
	if a.input.Spin {
		status += " SPIN"
	}
	drawText(status, 1120, 30, 16, col)

	drawText(fmt.Sprintf("t %.2f  frame %d  stones %d  faces %d", core.Time(), a.runner.FrameCount(), len(a.sink.stones), a.faces), 30, 60, 14, ColText)
	drawText("[SPACE] PAUSE  [BKSP] HOME  [P] SPIN  [ESC] QUIT", 800, 680, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
