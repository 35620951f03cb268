// Package compute provides the force accumulation backends.
//
// Every backend resets the force arena of a [physics.Simulation] and sums the
// pairwise contributions of a [physics.Law] over all unordered pairs of
// active particles, applying +f to the first and -f to the second:
//
//   - serial: a single i<j double loop, bit-reproducible
//   - parallel: the same loop split across workers, each summing into a private
//     partial slice that is reduced in worker order afterwards
//
// Simulations with fewer than 16 active particles always take the serial
// path.
//
//	backend, _ := compute.Select("parallel", 0)
//	backend.Accumulate(sim, physics.NewCoulomb(1, 0.01))
package compute
