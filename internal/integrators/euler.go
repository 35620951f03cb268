package integrators

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// Euler is the semi-implicit (symplectic) Euler step with unit inertia:
// the velocity is kicked first and the drift uses the new velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s *physics.Simulation, backend compute.Backend, law physics.Law, dt float64) {
	backend.Accumulate(s, law)

	particles, forces := s.Arena()
	for i := range particles {
		p := &particles[i]
		if !p.Active {
			continue
		}
		kick(p, forces[i], dt)
		drift(p, dt)
	}
}

func kick(p *physics.Particle, f mgl64.Vec3, dt float64) {
	v := p.Velocity.Add(f.Mul(dt))
	if vecmath.Finite64(v) {
		p.Velocity = v
	}
}

// drift keeps the last finite position if the update overflows.
func drift(p *physics.Particle, dt float64) {
	pos := vecmath.To64(p.Position).Add(p.Velocity.Mul(dt))
	next := vecmath.To32(pos)
	if vecmath.Finite32(next) {
		p.Position = next
	}
}
