package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// Law computes the force exerted on a by b. Implementations must satisfy
// Pair(a, b) == -Pair(b, a) and return zero for coincident particles.
type Law interface {
	Pair(a, b *Particle) mgl64.Vec3
}

// Potential is implemented by laws that can report pair potential energy.
type Potential interface {
	PairPotential(a, b *Particle) float64
}

// Coulomb is a softened inverse-square electrostatic law:
//
//	F_a = -K q_a q_b d / (|d|² + ε²)^(3/2),  d = p_b - p_a
//
// Like charges repel and opposite charges attract.
type Coulomb struct {
	K         float64
	Softening float64
}

func NewCoulomb(k, softening float64) Coulomb {
	return Coulomb{K: k, Softening: softening}
}

func (c Coulomb) Pair(a, b *Particle) mgl64.Vec3 {
	d := vecmath.To64(b.Position.Sub(a.Position))
	r2 := d.Dot(d)
	if r2 == 0 {
		return mgl64.Vec3{}
	}

	r2 += c.Softening * c.Softening
	rInv := 1.0 / math.Sqrt(r2)
	r3Inv := rInv * rInv * rInv

	qq := a.Charge() * b.Charge()
	f := d.Mul(-c.K * qq * r3Inv)
	if !vecmath.Finite64(f) {
		return mgl64.Vec3{}
	}
	return f
}

func (c Coulomb) PairPotential(a, b *Particle) float64 {
	d := vecmath.To64(b.Position.Sub(a.Position))
	r := math.Sqrt(d.Dot(d) + c.Softening*c.Softening)
	if r == 0 {
		return 0
	}
	qq := a.Charge() * b.Charge()
	return c.K * qq / r
}
