// Package dynamo ties the simulation, the mesh generator and the camera
// into a frame loop.
//
//   - [Core]: the engine facade (Step, RenderView, Spawn)
//   - [Runner]: one frame is input, camera, step, view and sink, at a fixed dt
//   - [Sink]: where a render driver receives the stones of a frame
//   - [Metric] and [Observer]: per-frame measurements
//
// # Example
//
//	core := dynamo.NewCore(sim, integrators.NewEuler(), compute.NewSerialBackend(), law)
//	r := dynamo.NewRunner(core, camera.Default(), camera.DefaultSteps(), sink, 0.01)
//	result, err := r.Run(ctx, 600)
//
// # Thread Safety
//
// Core and Runner are NOT thread-safe. Drivers call Frame from their own
// loop; [RunEnsemble] gives every run its own Runner.
package dynamo
