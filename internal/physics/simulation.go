package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Simulation owns every particle of a run. Index i of particles and forces
// refer to the same body for the lifetime of the simulation.
type Simulation struct {
	particles []Particle
	forces    []mgl64.Vec3
}

func New(capacity int) *Simulation {
	return &Simulation{
		particles: make([]Particle, 0, capacity),
		forces:    make([]mgl64.Vec3, 0, capacity),
	}
}

// Elementary appends an electron and returns its index.
func (s *Simulation) Elementary(position mgl32.Vec3, velocity mgl64.Vec3, active bool) int {
	idx, _ := s.Spawn(Particle{
		Kind:     Elementary,
		Position: position,
		Velocity: velocity,
		Active:   active,
		Stable:   true,
	})
	return idx
}

// Composite appends a quark. Any non-negative family and flavor is
// accepted; range policy is left to the caller.
func (s *Simulation) Composite(position mgl32.Vec3, velocity mgl64.Vec3, active, stable bool, family, flavor int) (int, error) {
	return s.Spawn(Particle{
		Kind:     Composite,
		Family:   family,
		Flavor:   flavor,
		Position: position,
		Velocity: velocity,
		Active:   active,
		Stable:   stable,
	})
}

// Spawn validates p and appends it with a zero force. It is safe to call
// between steps.
func (s *Simulation) Spawn(p Particle) (int, error) {
	if !p.Kind.Valid() {
		return -1, fmt.Errorf("%w: %d", ErrUnknownKind, p.Kind)
	}
	if p.Kind == Elementary {
		p.Family, p.Flavor, p.Stable = 0, 0, true
	}
	if p.Family < 0 || p.Flavor < 0 {
		return -1, fmt.Errorf("%w: family=%d flavor=%d", ErrNegativeIndex, p.Family, p.Flavor)
	}
	s.particles = append(s.particles, p)
	s.forces = append(s.forces, mgl64.Vec3{})
	return len(s.particles) - 1, nil
}

func (s *Simulation) Len() int { return len(s.particles) }

// Particle returns a copy of particle i.
func (s *Simulation) Particle(i int) Particle { return s.particles[i] }

// At returns a pointer into the particle arena. It stays valid until the
// next Spawn.
func (s *Simulation) At(i int) *Particle { return &s.particles[i] }

// Particles returns a copy of every particle in creation order.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Force returns the force accumulated on particle i by the last step.
func (s *Simulation) Force(i int) mgl64.Vec3 { return s.forces[i] }

func (s *Simulation) SetActive(i int, active bool) { s.particles[i].Active = active }

// ActiveCount counts the particles taking part in the force pass.
func (s *Simulation) ActiveCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Active {
			n++
		}
	}
	return n
}

// Arena exposes the backing slices to the force and integration passes.
// Callers may write elements but must not append or reslice.
func (s *Simulation) Arena() ([]Particle, []mgl64.Vec3) {
	return s.particles, s.forces
}

// ResetForces zeroes every accumulator.
func (s *Simulation) ResetForces() {
	for i := range s.forces {
		s.forces[i] = mgl64.Vec3{}
	}
}

// Clone deep-copies the simulation.
func (s *Simulation) Clone() *Simulation {
	c := &Simulation{
		particles: make([]Particle, len(s.particles)),
		forces:    make([]mgl64.Vec3, len(s.forces)),
	}
	copy(c.particles, s.particles)
	copy(c.forces, s.forces)
	return c
}
