package dynamo

import (
	"context"
	"fmt"

	"github.com/san-kum/anomaly/internal/camera"
)

type Runner struct {
	core  *Core
	cam   camera.Camera
	steps camera.Steps
	sink  Sink
	dt    float64

	metrics   []Metric
	observers []Observer

	frame  int
	limit  int
	result *Result
}

// NewRunner copies cam; the runner owns its camera from then on. sink may
// be nil for headless runs.
func NewRunner(core *Core, cam *camera.Camera, steps camera.Steps, sink Sink, dt float64) *Runner {
	r := &Runner{
		core:      core,
		cam:       *cam,
		steps:     steps,
		sink:      sink,
		dt:        dt,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	r.result = newResult(nil, 0)
	return r
}

func (r *Runner) AddMetric(m Metric) {
	r.metrics = append(r.metrics, m)
	r.result.Series[m.Name()] = make([]float64, 0)
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetHistoryLimit keeps only the last n values of every series. Zero keeps
// everything.
func (r *Runner) SetHistoryLimit(n int) { r.limit = n }

func (r *Runner) Core() *Core               { return r.core }
func (r *Runner) Camera() camera.Camera     { return r.cam }
func (r *Runner) SetCamera(c camera.Camera) { r.cam = c }
func (r *Runner) FrameCount() int           { return r.frame }
func (r *Runner) Result() *Result           { return r.result }

// Frame runs one frame: the camera takes the input, the engine takes one
// step of dt, and the sink receives the fresh view. A sink error is
// returned as a *FrameError after the step has been kept.
func (r *Runner) Frame(in camera.Input) error {
	r.cam = camera.Update(r.cam, in, r.steps)
	r.core.Step(r.dt)

	sim := r.core.Simulation()
	t := r.core.Time()
	for _, m := range r.metrics {
		m.Observe(sim, t)
		series := append(r.result.Series[m.Name()], m.Value())
		if r.limit > 0 && len(series) > r.limit {
			series = series[len(series)-r.limit:]
		}
		r.result.Series[m.Name()] = series
	}
	for _, obs := range r.observers {
		obs.OnFrame(r.frame, sim)
	}

	frame := r.frame
	r.frame++
	r.result.Frames = r.frame
	r.result.Time = t

	if r.sink == nil {
		return nil
	}
	if err := r.sink.Draw(r.core.RenderView(), r.cam.Pose(), frame); err != nil {
		return &FrameError{Frame: frame, Time: t, Wrapped: err}
	}
	return nil
}

// Run drives frames without input until the count is reached or ctx is
// done. Sink errors stop the run; an invalid state is recorded once and the
// run goes on.
func (r *Runner) Run(ctx context.Context, frames int) (*Result, error) {
	if err := r.validate(frames); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	invalid := false
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			r.finish()
			return r.result, ctx.Err()
		default:
		}

		if err := r.Frame(camera.Input{}); err != nil {
			r.result.Errors = append(r.result.Errors, err)
			r.finish()
			return r.result, err
		}

		if !invalid && !r.core.Valid() {
			invalid = true
			r.result.Errors = append(r.result.Errors, &FrameError{Frame: r.frame - 1, Time: r.core.Time(), Wrapped: ErrInvalidState})
		}
	}

	r.finish()
	return r.result, nil
}

func (r *Runner) finish() {
	for _, m := range r.metrics {
		r.result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) validate(frames int) error {
	if !(r.dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, r.dt)
	}
	if frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, frames)
	}
	return nil
}
