package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/anomaly/internal/physics"
)

var ErrInvalidStone = errors.New("mesh: invalid stone")

// Stone is an indexed triangle list. Every triangle owns its three vertices,
// so Normals holds the face normal once per corner.
type Stone struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32

	Kind   physics.Kind
	Family int
	Stable bool
}

func (s Stone) Triangles() int { return len(s.Indices) / 3 }

// Triangle returns the corners and face normal of triangle t.
func (s Stone) Triangle(t int) (a, b, c, n mgl32.Vec3) {
	i0, i1, i2 := s.Indices[3*t], s.Indices[3*t+1], s.Indices[3*t+2]
	return s.Positions[i0], s.Positions[i1], s.Positions[i2], s.Normals[i0]
}

// Center is the mean of the vertex positions.
func (s Stone) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	if len(s.Positions) == 0 {
		return c
	}
	for _, p := range s.Positions {
		c = c.Add(p)
	}
	return c.Mul(1 / float32(len(s.Positions)))
}

// Validate checks the structural guarantees drivers rely on.
func (s Stone) Validate() error {
	if len(s.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrInvalidStone, len(s.Indices))
	}
	if len(s.Normals) != len(s.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrInvalidStone, len(s.Normals), len(s.Positions))
	}
	for i, idx := range s.Indices {
		if int(idx) >= len(s.Positions) {
			return fmt.Errorf("%w: index %d out of range at %d", ErrInvalidStone, idx, i)
		}
	}
	for i, n := range s.Normals {
		if math.Abs(float64(n.Len())-1) > 1e-3 {
			return fmt.Errorf("%w: normal %d has length %f", ErrInvalidStone, i, n.Len())
		}
	}
	return nil
}
