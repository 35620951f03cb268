package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type triangle [3]mgl32.Vec3

// template is a unit-sphere triangle list with outward winding.
type template []triangle

func baseTriangles(s Solid) template {
	switch s {
	case Octahedron:
		return octahedron()
	default:
		return icosahedron()
	}
}

func icosahedron() template {
	t := float32((1 + math.Sqrt(5)) / 2)
	v := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	out := make(template, 0, len(faces))
	for _, f := range faces {
		out = append(out, outward(triangle{v[f[0]].Normalize(), v[f[1]].Normalize(), v[f[2]].Normalize()}))
	}
	return out
}

func octahedron() template {
	out := make(template, 0, 8)
	for _, sx := range []float32{1, -1} {
		for _, sy := range []float32{1, -1} {
			for _, sz := range []float32{1, -1} {
				out = append(out, outward(triangle{{sx, 0, 0}, {0, sy, 0}, {0, 0, sz}}))
			}
		}
	}
	return out
}

// outward flips t if its winding faces the origin.
func outward(t triangle) triangle {
	if t[0].Dot(t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	return t
}

// subdivide splits every triangle in four, pushing the new corners back onto
// the unit sphere. Winding is preserved.
func subdivide(in template) template {
	out := make(template, 0, len(in)*4)
	for _, t := range in {
		ab := t[0].Add(t[1]).Normalize()
		bc := t[1].Add(t[2]).Normalize()
		ca := t[2].Add(t[0]).Normalize()
		out = append(out,
			triangle{t[0], ab, ca},
			triangle{ab, t[1], bc},
			triangle{ca, bc, t[2]},
			triangle{ab, bc, ca},
		)
	}
	return out
}

var templates [len(presets)]template

func init() {
	for k, p := range presets {
		t := baseTriangles(p.Base)
		for i := 0; i < p.Subdivisions; i++ {
			t = subdivide(t)
		}
		templates[k] = t
	}
}
