package integrators

import (
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/physics"
)

// Leapfrog is the kick-drift-kick form. It costs two force passes per
// step and leaves the forces of the new positions in the arena.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Step(s *physics.Simulation, backend compute.Backend, law physics.Law, dt float64) {
	halfDt := 0.5 * dt

	backend.Accumulate(s, law)
	particles, forces := s.Arena()
	for i := range particles {
		if particles[i].Active {
			kick(&particles[i], forces[i], halfDt)
			drift(&particles[i], dt)
		}
	}

	backend.Accumulate(s, law)
	for i := range particles {
		if particles[i].Active {
			kick(&particles[i], forces[i], halfDt)
		}
	}
}
