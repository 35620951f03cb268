package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/physics"
)

var (
	electronColor = colorful.Hcl(230, 0.45, 0.8)
	unstableTint  = colorful.Color{R: 0.3, G: 0.3, B: 0.3}
)

// StoneColor is the base color of a stone: electrons are pale blue, quark
// families walk around the hue circle and unstable quarks are greyed.
func StoneColor(s *mesh.Stone) colorful.Color {
	c := electronColor
	if s.Kind == physics.Composite {
		hue := float64((30 + 75*s.Family) % 360)
		c = colorful.Hcl(hue, 0.7, 0.65)
	}
	if !s.Stable {
		c = c.BlendLab(unstableTint, 0.55)
	}
	return c.Clamped()
}

// Shade darkens c toward black; intensity 1 leaves it unchanged.
func Shade(c colorful.Color, intensity float32) colorful.Color {
	return colorful.Color{}.BlendRgb(c, float64(intensity)).Clamped()
}

func TermColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
