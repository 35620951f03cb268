// Package physics holds the particle data model and the interaction law.
//
// A [Simulation] stores particles in creation order together with a
// parallel slice of accumulated forces, so the O(n²) force pass works on
// indices instead of pointers:
//
//   - [Particle]: position, velocity, kind tag and activity flags
//   - [Kind]: Elementary (electron) or Composite (quark)
//   - [Law]: pairwise interaction, implemented by [Coulomb]
//
// Particles are only ever appended; removal is modelled by deactivation.
//
// # Example
//
//	s := physics.New(0)
//	s.Elementary(mgl32.Vec3{0, 0, 0}, mgl64.Vec3{}, true)
//	s.Elementary(mgl32.Vec3{1, 0, 0}, mgl64.Vec3{}, true)
//	f := physics.NewCoulomb(1, 0.01).Pair(s.At(0), s.At(1))
package physics
