package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/anomaly/internal/camera"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPairs      = 10
	DefaultSpawnMax   = 69
	DefaultHeadingMax = 10
	DefaultSpeedScale = 0.1
	DefaultDt         = 0.01
	DefaultFamilies   = 3
	DefaultFlavors    = 1
	DefaultCoupling   = 1.0
	DefaultSoftening  = 0.1
	DefaultFPS        = 60
	DefaultWorldScale = 0.01
	DefaultHoldFrames = 8
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Seed       int64   `yaml:"seed"`
	Pairs      int     `yaml:"pairs"`
	SpawnMin   float32 `yaml:"spawn_min"`
	SpawnMax   float32 `yaml:"spawn_max"`
	HeadingMin float64 `yaml:"heading_min"`
	HeadingMax float64 `yaml:"heading_max"`
	SpeedScale float64 `yaml:"speed_scale"`
	Dt         float64 `yaml:"dt"`
	Families   int     `yaml:"families"`
	Flavors    int     `yaml:"flavors"`

	Engine EngineConfig      `yaml:"engine"`
	Camera CameraConfig      `yaml:"camera"`
	Render RenderConfig      `yaml:"render"`
	Keys   map[string]string `yaml:"keys"`
}

type EngineConfig struct {
	Integrator string  `yaml:"integrator"`
	Backend    string  `yaml:"backend"`
	Workers    int     `yaml:"workers"`
	Coupling   float64 `yaml:"coupling"`
	Softening  float64 `yaml:"softening"`
}

type CameraConfig struct {
	Eye              [3]float32 `yaml:"eye,flow"`
	Target           [3]float32 `yaml:"target,flow"`
	Up               [3]float32 `yaml:"up,flow"`
	MoveStep         float32    `yaml:"move_step"`
	TurnStep         float32    `yaml:"turn_step"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	PitchMargin      float32    `yaml:"pitch_margin"`
	FOV              float32    `yaml:"fov"`
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
}

type RenderConfig struct {
	FPS        int     `yaml:"fps"`
	WorldScale float32 `yaml:"world_scale"`
	SpinRate   float32 `yaml:"spin_rate"`
	HoldFrames int     `yaml:"hold_frames"`
}

func DefaultKeys() map[string]string {
	return map[string]string{
		"forward":     "w",
		"back":        "s",
		"left":        "a",
		"right":       "d",
		"up":          "r",
		"down":        "f",
		"roll_left":   "q",
		"roll_right":  "e",
		"yaw_left":    "x",
		"yaw_right":   "c",
		"pitch_up":    "t",
		"pitch_down":  "g",
		"toggle_spin": "p",
	}
}

func DefaultConfig() *Config {
	lens := camera.DefaultLens()
	steps := camera.DefaultSteps()
	return &Config{
		Seed:       1,
		Pairs:      DefaultPairs,
		SpawnMin:   0,
		SpawnMax:   DefaultSpawnMax,
		HeadingMin: 0,
		HeadingMax: DefaultHeadingMax,
		SpeedScale: DefaultSpeedScale,
		Dt:         DefaultDt,
		Families:   DefaultFamilies,
		Flavors:    DefaultFlavors,
		Engine: EngineConfig{
			Integrator: "euler",
			Backend:    "auto",
			Coupling:   DefaultCoupling,
			Softening:  DefaultSoftening,
		},
		Camera: CameraConfig{
			Eye:              [3]float32{0, -1, 1},
			Up:               [3]float32{0, -1, 0},
			MoveStep:         steps.Move,
			TurnStep:         steps.Turn,
			MouseSensitivity: steps.Mouse,
			PitchMargin:      camera.DefaultPitchMargin,
			FOV:              lens.FOV,
			Near:             lens.Near,
			Far:              lens.Far,
		},
		Render: RenderConfig{
			FPS:        DefaultFPS,
			WorldScale: DefaultWorldScale,
			SpinRate:   1,
			HoldFrames: DefaultHoldFrames,
		},
		Keys: DefaultKeys(),
	}
}

// Load reads path over the defaults, so a file only needs the fields it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Keys = make(map[string]string, len(c.Keys))
	for k, v := range c.Keys {
		cp.Keys[k] = v
	}
	return &cp
}

func (c *Config) Validate() error {
	switch {
	case c.Pairs < 0:
		return fmt.Errorf("%w: pairs must not be negative, got %d", ErrInvalid, c.Pairs)
	case c.SpawnMax < c.SpawnMin:
		return fmt.Errorf("%w: spawn_max %v below spawn_min %v", ErrInvalid, c.SpawnMax, c.SpawnMin)
	case c.HeadingMax < c.HeadingMin:
		return fmt.Errorf("%w: heading_max %v below heading_min %v", ErrInvalid, c.HeadingMax, c.HeadingMin)
	case c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0):
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalid, c.Dt)
	case c.Families < 1 || c.Flavors < 1:
		return fmt.Errorf("%w: families and flavors must be at least 1", ErrInvalid)
	case c.Engine.Softening < 0:
		return fmt.Errorf("%w: softening must not be negative", ErrInvalid)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: need 0 < near < far, got %v and %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= math.Pi:
		return fmt.Errorf("%w: fov must be in (0, pi), got %v", ErrInvalid, c.Camera.FOV)
	case c.Camera.PitchMargin < 0 || c.Camera.PitchMargin >= math.Pi/2:
		return fmt.Errorf("%w: pitch_margin must be in [0, pi/2), got %v", ErrInvalid, c.Camera.PitchMargin)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.Render.FPS)
	case c.Render.WorldScale <= 0:
		return fmt.Errorf("%w: world_scale must be positive", ErrInvalid)
	case c.Render.HoldFrames < 1:
		return fmt.Errorf("%w: hold_frames must be at least 1", ErrInvalid)
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

// NewCamera builds the starting camera.
func (c *Config) NewCamera() *camera.Camera {
	cam := camera.New(mgl32.Vec3(c.Camera.Eye), mgl32.Vec3(c.Camera.Target), mgl32.Vec3(c.Camera.Up))
	cam.PitchMargin = c.Camera.PitchMargin
	return cam
}

func (c *Config) Lens() camera.Lens {
	return camera.Lens{FOV: c.Camera.FOV, Near: c.Camera.Near, Far: c.Camera.Far}
}

func (c *Config) Steps() camera.Steps {
	return camera.Steps{Move: c.Camera.MoveStep, Turn: c.Camera.TurnStep, Mouse: c.Camera.MouseSensitivity}
}

// Bindings maps key names to actions. Key names are lower-cased; two
// actions may not share a key.
func (c *Config) Bindings() (map[string]camera.Action, error) {
	out := make(map[string]camera.Action, len(c.Keys))
	for name, key := range c.Keys {
		action, err := camera.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("%w: empty key for %s", ErrInvalid, name)
		}
		if prev, dup := out[key]; dup {
			return nil, fmt.Errorf("%w: key %q bound to %s and %s", ErrInvalid, key, prev, action)
		}
		out[key] = action
	}
	return out, nil
}
