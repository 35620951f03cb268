package metrics

import (
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/physics"
)

// StabilityRadius is the distance from the origin past which a particle
// counts as escaped.
const StabilityRadius = 1e4

// Default returns the metrics reported by headless runs and the terminal
// side panel.
func Default(law physics.Potential) []dynamo.Metric {
	return []dynamo.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(law),
		NewNetForce(),
		NewMomentumDrift(),
		NewSpread(),
		NewStability(StabilityRadius),
	}
}
