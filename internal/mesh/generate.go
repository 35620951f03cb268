package mesh

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

const (
	noiseAlpha     = 2
	noiseBeta      = 2
	noiseOctaves   = 3
	noiseSeed      = 1337
	noiseFrequency = 1.7
	noiseStride    = 17.31
)

// The Perlin tables are read-only after construction, so one generator is
// shared by every goroutine building stones.
var noise = perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, noiseSeed)

// Generate builds one stone per active particle, in creation order.
func Generate(s *physics.Simulation) []Stone {
	stones := make([]Stone, 0, s.ActiveCount())
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		if !p.Active {
			continue
		}
		stones = append(stones, Build(p, i))
	}
	return stones
}

// Build tessellates a single particle. index seeds the surface roughness
// so a particle keeps its shape from frame to frame.
func Build(p *physics.Particle, index int) Stone {
	kind := p.Kind
	if !kind.Valid() {
		kind = physics.Elementary
	}
	preset := presets[kind]
	tmpl := templates[kind]

	rot := Orientation(p)
	scale := preset.Scale(p.Family)
	offset := float64(index) * noiseStride

	n := len(tmpl) * 3
	stone := Stone{
		Positions: make([]mgl32.Vec3, 0, n),
		Normals:   make([]mgl32.Vec3, 0, n),
		Indices:   make([]uint32, 0, n),
		Kind:      p.Kind,
		Family:    p.Family,
		Stable:    p.Stable,
	}

	for _, tri := range tmpl {
		var corners [3]mgl32.Vec3
		for c, u := range tri {
			r := scale * radial(u, preset.Roughness, offset)
			corners[c] = p.Position.Add(rot.Rotate(u.Mul(r)))
		}

		normal := vecmath.Normalize32(corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0])))
		base := uint32(len(stone.Positions))
		for _, c := range corners {
			stone.Positions = append(stone.Positions, c)
			stone.Normals = append(stone.Normals, normal)
		}
		stone.Indices = append(stone.Indices, base, base+1, base+2)
	}

	return stone
}

// Orientation turns local +Z onto the particle heading. A particle at rest
// keeps the identity.
func Orientation(p *physics.Particle) mgl32.Quat {
	dir := vecmath.To32(p.Direction())
	if dir.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, dir)
}

// radial is the relative radius of the surface in direction u. It stays in
// [1-roughness, 1+roughness] so the stone is star-shaped about its center.
func radial(u mgl32.Vec3, roughness float32, offset float64) float32 {
	if roughness == 0 {
		return 1
	}
	v := noise.Noise3D(
		float64(u.X())*noiseFrequency+offset,
		float64(u.Y())*noiseFrequency,
		float64(u.Z())*noiseFrequency,
	)
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return 1 + roughness*float32(v)
}
