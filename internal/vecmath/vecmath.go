// Package vecmath holds the small vector helpers shared by the simulation,
// the mesh generator and the camera. Positions are single precision
// (mgl32) and dynamics are double precision (mgl64).
//
// Every helper is pure. Random generators draw from an explicit source so
// callers can seed them.
package vecmath

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Rand32 returns a vector whose components are drawn independently and
// uniformly from [lo, hi].
func Rand32(lo, hi float32, rng *rand.Rand) mgl32.Vec3 {
	return mgl32.Vec3{
		lo + rng.Float32()*(hi-lo),
		lo + rng.Float32()*(hi-lo),
		lo + rng.Float32()*(hi-lo),
	}
}

// Rand64 is the double precision version of Rand32.
func Rand64(lo, hi float64, rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{
		lo + rng.Float64()*(hi-lo),
		lo + rng.Float64()*(hi-lo),
		lo + rng.Float64()*(hi-lo),
	}
}

// Normalize32 returns v scaled to unit length. A vector with zero or
// non-finite length normalizes to the zero vector.
func Normalize32(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 || !finite(float64(l)) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Normalize64 returns v scaled to unit length. A vector with zero or
// non-finite length normalizes to the zero vector.
func Normalize64(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || !finite(l) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func Scale32(v mgl32.Vec3, s float32) mgl32.Vec3 { return v.Mul(s) }
func Scale64(v mgl64.Vec3, s float64) mgl64.Vec3 { return v.Mul(s) }

// Finite32 reports whether no component is NaN or infinite.
func Finite32(v mgl32.Vec3) bool {
	return finite(float64(v[0])) && finite(float64(v[1])) && finite(float64(v[2]))
}

// Finite64 reports whether no component is NaN or infinite.
func Finite64(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// To32 narrows a double precision vector.
func To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// To64 widens a single precision vector.
func To64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
