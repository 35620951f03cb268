package integrators

import (
	"errors"
	"fmt"

	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/physics"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Stepper advances a simulation by one fixed step. Forces are always
// recomputed from scratch through backend before they are applied.
type Stepper interface {
	Name() string
	Step(s *physics.Simulation, backend compute.Backend, law physics.Law, dt float64)
}

func Select(name string) (Stepper, error) {
	switch name {
	case "", "euler":
		return NewEuler(), nil
	case "leapfrog":
		return NewLeapfrog(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
}

func Names() []string {
	return []string{"euler", "leapfrog"}
}
