package mesh

import "github.com/san-kum/anomaly/internal/physics"

type Solid uint8

const (
	Icosahedron Solid = iota
	Octahedron
)

func (s Solid) String() string {
	switch s {
	case Icosahedron:
		return "icosahedron"
	case Octahedron:
		return "octahedron"
	}
	return "unknown"
}

// Preset describes how one kind of particle is drawn. Radius and growth are
// in simulation units. Roughness is the largest relative radial
// displacement and must stay below 1.
type Preset struct {
	Base         Solid
	Subdivisions int
	Radius       float32
	Roughness    float32
	FamilyGrowth float32
}

var presets = [physics.NumKinds]Preset{
	physics.Elementary: {
		Base:         Icosahedron,
		Subdivisions: 1,
		Radius:       0.6,
		Roughness:    0.15,
	},
	physics.Composite: {
		Base:         Octahedron,
		Subdivisions: 2,
		Radius:       0.9,
		Roughness:    0.3,
		FamilyGrowth: 0.35,
	},
}

// PresetFor returns the preset of kind k. Unknown kinds fall back to the
// elementary preset.
func PresetFor(k physics.Kind) Preset {
	if !k.Valid() {
		return presets[physics.Elementary]
	}
	return presets[k]
}

// Scale is the stone radius for a particle of the given family.
func (p Preset) Scale(family int) float32 {
	return p.Radius * (1 + p.FamilyGrowth*float32(family))
}
