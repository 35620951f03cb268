package vecmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRandWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		v := Rand32(0, 69, rng)
		for c := 0; c < 3; c++ {
			assert.GreaterOrEqual(t, v[c], float32(0))
			assert.LessOrEqual(t, v[c], float32(69))
		}
		w := Rand64(-2, 10, rng)
		for c := 0; c < 3; c++ {
			assert.GreaterOrEqual(t, w[c], -2.0)
			assert.LessOrEqual(t, w[c], 10.0)
		}
	}
}

func TestRandSeeded(t *testing.T) {
	a := Rand64(0, 10, rand.New(rand.NewSource(42)))
	b := Rand64(0, 10, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b, "same seed")

	c := Rand32(0, 10, rand.New(rand.NewSource(42)))
	d := Rand32(0, 10, rand.New(rand.NewSource(42)))
	assert.Equal(t, c, d, "same seed")
}

func TestNormalize(t *testing.T) {
	n := Normalize64(mgl64.Vec3{3, 0, 4})
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[2], 1e-12)

	m := Normalize32(mgl32.Vec3{0, -2, 0})
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, m)
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, Normalize64(mgl64.Vec3{}), "zero vector")
	assert.Equal(t, mgl32.Vec3{}, Normalize32(mgl32.Vec3{}), "zero vector")
	assert.Equal(t, mgl64.Vec3{}, Normalize64(mgl64.Vec3{math.Inf(1), 0, 0}), "infinite vector")
	assert.Equal(t, mgl64.Vec3{}, Normalize64(mgl64.Vec3{math.NaN(), 1, 0}), "NaN vector")
}

func TestScale(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{2, 4, -6}, Scale64(mgl64.Vec3{1, 2, -3}, 2))
	assert.Equal(t, mgl32.Vec3{0.5, 0, 1}, Scale32(mgl32.Vec3{1, 0, 2}, 0.5))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite64(mgl64.Vec3{1, 2, 3}))
	assert.False(t, Finite64(mgl64.Vec3{1, math.NaN(), 3}))
	assert.False(t, Finite32(mgl32.Vec3{float32(math.Inf(-1)), 0, 0}))
}
