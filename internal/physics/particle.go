package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// Charges in units of the elementary charge.
const (
	ElectronCharge = -1.0
	UpCharge       = 2.0 / 3.0
	DownCharge     = -1.0 / 3.0
)

// Particle is one simulated body. Family and Flavor are only meaningful for
// composites; Stable is the composite secondary flag and is always true for
// elementary particles.
type Particle struct {
	Kind     Kind
	Family   int
	Flavor   int
	Position mgl32.Vec3
	Velocity mgl64.Vec3
	Active   bool
	Stable   bool
}

// Direction is the unit heading, or zero for a particle at rest.
func (p *Particle) Direction() mgl64.Vec3 {
	return vecmath.Normalize64(p.Velocity)
}

func (p *Particle) Speed() float64 {
	return p.Velocity.Len()
}

// Charge maps the kind tag to a charge: electrons carry -1, composites of
// even flavor are up-type (+2/3) and odd flavor down-type (-1/3).
func (p *Particle) Charge() float64 {
	if p.Kind == Elementary {
		return ElectronCharge
	}
	if p.Flavor%2 == 0 {
		return UpCharge
	}
	return DownCharge
}
