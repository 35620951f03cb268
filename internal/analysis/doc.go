// Package analysis looks at a finished run rather than a single frame.
//
//   - [Spectrum] and [DominantFrequency]: where a sampled series such as the
//     kinetic energy oscillates
//   - [LyapunovEstimate]: how fast two nearly equal scenes drift apart
//
// A positive estimate means the scene is sensitive to its start:
//
//	lambda := analysis.LyapunovEstimate(sim, stepper, backend, law, dt, steps, 1e-6)
package analysis
