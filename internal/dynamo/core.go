package dynamo

import (
	"math"

	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// meshChunk is the smallest number of stones handed to one goroutine.
const meshChunk = 8

type Core struct {
	sim     *physics.Simulation
	stepper integrators.Stepper
	backend compute.Backend
	law     physics.Law

	time  float64
	steps int
}

func NewCore(sim *physics.Simulation, stepper integrators.Stepper, backend compute.Backend, law physics.Law) *Core {
	return &Core{sim: sim, stepper: stepper, backend: backend, law: law}
}

// Step advances the simulation by dt. A non-positive or non-finite dt is
// ignored.
func (c *Core) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	c.stepper.Step(c.sim, c.backend, c.law, dt)
	c.time += dt
	c.steps++
}

// RenderView tessellates every active particle. Large scenes are split
// across goroutines; the order is always creation order.
func (c *Core) RenderView() []mesh.Stone {
	active := make([]int, 0, c.sim.Len())
	for i := 0; i < c.sim.Len(); i++ {
		if c.sim.At(i).Active {
			active = append(active, i)
		}
	}

	stones := make([]mesh.Stone, len(active))
	ParallelFor(len(active), meshChunk, func(start, end int) {
		for k := start; k < end; k++ {
			stones[k] = mesh.Build(c.sim.At(active[k]), active[k])
		}
	})
	return stones
}

func (c *Core) Spawn(p physics.Particle) (int, error) {
	return c.sim.Spawn(p)
}

func (c *Core) Simulation() *physics.Simulation { return c.sim }
func (c *Core) Time() float64                   { return c.time }
func (c *Core) Steps() int                      { return c.steps }
func (c *Core) Backend() compute.Backend        { return c.backend }
func (c *Core) Stepper() integrators.Stepper    { return c.stepper }

// Valid reports whether every active particle has a finite state.
func (c *Core) Valid() bool {
	particles, forces := c.sim.Arena()
	for i := range particles {
		p := &particles[i]
		if !p.Active {
			continue
		}
		if !vecmath.Finite32(p.Position) || !vecmath.Finite64(p.Velocity) || !vecmath.Finite64(forces[i]) {
			return false
		}
	}
	return true
}

func (c *Core) Close() {
	c.backend.Cleanup()
}
