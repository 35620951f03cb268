package analysis

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// LyapunovEstimate nudges the velocity of the first active particle by
// perturbation, runs both copies for steps steps and returns
// ln(separation/perturbation)/time. The separation is measured over every
// position and velocity. s is not modified.
func LyapunovEstimate(
	s *physics.Simulation,
	stepper integrators.Stepper,
	backend compute.Backend,
	law physics.Law,
	dt float64,
	steps int,
	perturbation float64,
) float64 {
	if steps <= 0 || !(dt > 0) || !(perturbation > 0) {
		return 0
	}

	a := s.Clone()
	b := s.Clone()

	nudged := false
	for i := 0; i < b.Len(); i++ {
		if p := b.At(i); p.Active {
			p.Velocity = p.Velocity.Add(mgl64.Vec3{perturbation, 0, 0})
			nudged = true
			break
		}
	}
	if !nudged {
		return 0
	}

	for i := 0; i < steps; i++ {
		stepper.Step(a, backend, law, dt)
		stepper.Step(b, backend, law, dt)
	}

	sep := separation(a, b)
	if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
		return 0
	}
	return math.Log(sep/perturbation) / (float64(steps) * dt)
}

func separation(a, b *physics.Simulation) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		pa, pb := a.At(i), b.At(i)
		dp := vecmath.To64(pa.Position).Sub(vecmath.To64(pb.Position))
		dv := pa.Velocity.Sub(pb.Velocity)
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}
