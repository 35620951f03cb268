package compute

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/physics"
)

const parallelThreshold = 16

type CPUBackend struct {
	workers  int
	partials [][]mgl64.Vec3
	active   []int
}

// NewCPUBackend splits the force pass across workers goroutines; a
// non-positive count uses one worker per CPU.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func NewSerialBackend() *CPUBackend {
	return &CPUBackend{workers: 1}
}

func (c *CPUBackend) Name() string {
	if c.workers == 1 {
		return "serial"
	}
	return "parallel"
}

func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Cleanup() {
	c.partials = nil
	c.active = nil
}

func (c *CPUBackend) Accumulate(s *physics.Simulation, law physics.Law) {
	s.ResetForces()
	particles, forces := s.Arena()

	c.active = c.active[:0]
	for i := range particles {
		if particles[i].Active {
			c.active = append(c.active, i)
		}
	}

	if c.workers <= 1 || len(c.active) < parallelThreshold {
		accumulateSerial(particles, forces, c.active, law)
		return
	}
	c.accumulateParallel(particles, forces, law)
}

func accumulateSerial(ps []physics.Particle, forces []mgl64.Vec3, active []int, law physics.Law) {
	for a := 0; a < len(active); a++ {
		i := active[a]
		for b := a + 1; b < len(active); b++ {
			j := active[b]

			f := law.Pair(&ps[i], &ps[j])
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}
}

// accumulateParallel deals rows round-robin so the triangular loop is
// balanced. Worker w only writes partials[w].
func (c *CPUBackend) accumulateParallel(ps []physics.Particle, forces []mgl64.Vec3, law physics.Law) {
	n := len(ps)
	workers := c.workers
	if workers > len(c.active) {
		workers = len(c.active)
	}

	if len(c.partials) < workers {
		c.partials = make([][]mgl64.Vec3, workers)
	}
	for w := 0; w < workers; w++ {
		if len(c.partials[w]) != n {
			c.partials[w] = make([]mgl64.Vec3, n)
		} else {
			for i := range c.partials[w] {
				c.partials[w][i] = mgl64.Vec3{}
			}
		}
	}

	active := c.active
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			local := c.partials[worker]
			for a := worker; a < len(active); a += workers {
				i := active[a]
				for b := a + 1; b < len(active); b++ {
					j := active[b]

					f := law.Pair(&ps[i], &ps[j])
					local[i] = local[i].Add(f)
					local[j] = local[j].Sub(f)
				}
			}
		}(w)
	}

	wg.Wait()

	for w := 0; w < workers; w++ {
		for _, i := range active {
			forces[i] = forces[i].Add(c.partials[w][i])
		}
	}
}
