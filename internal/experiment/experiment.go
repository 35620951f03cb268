// Package experiment assembles runnable scenes from a config: seeded
// particles, force backend, stepper, law, camera and metrics.
package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/metrics"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/scene"
)

type Experiment struct {
	cfg *config.Config
}

// New keeps its own copy of cfg.
func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Law is the force law the config describes.
func (e *Experiment) Law() physics.Coulomb {
	return physics.NewCoulomb(e.cfg.Engine.Coupling, e.cfg.Engine.Softening)
}

// Simulation returns the seeded starting state. The same seed always gives
// the same particles.
func (e *Experiment) Simulation() (*physics.Simulation, error) {
	s := physics.New(2 * e.cfg.Pairs)
	if err := scene.Populate(s, e.cfg, rand.New(rand.NewSource(e.cfg.Seed))); err != nil {
		return nil, err
	}
	return s, nil
}

// Build wires a fresh runner drawing to sink, which may be nil for
// headless runs.
func (e *Experiment) Build(sink dynamo.Sink) (*dynamo.Runner, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	sim, err := e.Simulation()
	if err != nil {
		return nil, err
	}
	backend, err := compute.Select(e.cfg.Engine.Backend, e.cfg.Engine.Workers)
	if err != nil {
		return nil, err
	}
	stepper, err := integrators.Select(e.cfg.Engine.Integrator)
	if err != nil {
		return nil, err
	}

	law := e.Law()
	core := dynamo.NewCore(sim, stepper, backend, law)
	r := dynamo.NewRunner(core, e.cfg.NewCamera(), e.cfg.Steps(), sink, e.cfg.Dt)
	for _, m := range metrics.Default(law) {
		r.AddMetric(m)
	}
	return r, nil
}

// Run builds a headless runner and plays frames on it.
func (e *Experiment) Run(ctx context.Context, frames int) (*dynamo.Result, error) {
	r, err := e.Build(nil)
	if err != nil {
		return nil, fmt.Errorf("experiment not setup: %w", err)
	}
	defer r.Core().Close()
	return r.Run(ctx, frames)
}
