// Package scene seeds a simulation with the starting particles of a run.
package scene

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// Spawner accepts new particles. Both *physics.Simulation and the dynamo
// core satisfy it.
type Spawner interface {
	Spawn(p physics.Particle) (int, error)
}

// Populate appends cfg.Pairs electron and quark pairs. Positions are uniform
// in the spawn cube and each heading is a normalized uniform draw scaled by
// the speed scale. Quarks start stable with a random family and flavor.
func Populate(dst Spawner, cfg *config.Config, rng *rand.Rand) error {
	for i := 0; i < cfg.Pairs; i++ {
		electron := physics.Particle{
			Kind:     physics.Elementary,
			Position: vecmath.Rand32(cfg.SpawnMin, cfg.SpawnMax, rng),
			Velocity: heading(cfg, rng),
			Active:   true,
			Stable:   true,
		}
		if _, err := dst.Spawn(electron); err != nil {
			return fmt.Errorf("scene: pair %d: %w", i, err)
		}

		quark := physics.Particle{
			Kind:     physics.Composite,
			Family:   rng.Intn(cfg.Families),
			Flavor:   rng.Intn(cfg.Flavors),
			Position: vecmath.Rand32(cfg.SpawnMin, cfg.SpawnMax, rng),
			Velocity: heading(cfg, rng),
			Active:   true,
			Stable:   true,
		}
		if _, err := dst.Spawn(quark); err != nil {
			return fmt.Errorf("scene: pair %d: %w", i, err)
		}
	}
	return nil
}

func heading(cfg *config.Config, rng *rand.Rand) mgl64.Vec3 {
	dir := vecmath.Normalize64(vecmath.Rand64(cfg.HeadingMin, cfg.HeadingMax, rng))
	return dir.Mul(cfg.SpeedScale)
}
