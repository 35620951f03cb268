// Package mesh turns the active particles of a simulation into "stones":
// small flat-shaded triangle meshes ready for a render driver.
//
// Each kind of particle maps to a fixed [Preset]. The preset's base solid is
// subdivided, pushed in and out by Perlin noise so every stone looks a
// little different, turned so its +Z axis follows the particle heading and
// finally scaled and moved onto the particle.
//
// Generation only reads the simulation. Every call returns fresh slices.
package mesh
