package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/viz"
)

const (
	background = "#0a0a0a"
	dotColor   = "#00ff00"
)

// StonesToSVG draws stones as filled polygons, painter's order, with the
// same projection and lighting the terminal driver uses.
func StonesToSVG(stones []mesh.Stone, sc viz.Scene) string {
	var sb strings.Builder
	header(&sb, sc.Width, sc.Height)

	sb.WriteString(`<g stroke-linejoin="round">` + "\n")
	for _, f := range viz.Project(stones, sc) {
		fill := viz.Shade(f.Color, f.Intensity).Hex()
		sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="0.5"/>`+"\n",
			f.Points[0][0], f.Points[0][1],
			f.Points[1][0], f.Points[1][1],
			f.Points[2][0], f.Points[2][1],
			fill, fill))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format. Cells keep the color
// they were drawn with.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	header(&sb, float32(width), float32(height))
	sb.WriteString(fmt.Sprintf(`<g fill="%s">`+"\n", dotColor))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			fill := ""
			if c := canvas.Color(row, col); c != "" {
				fill = fmt.Sprintf(` fill="%s"`, string(c))
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"%s/>`+"\n", cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a metric series against frame number.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	header(&sb, float32(width), float32(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteFile writes an SVG document to path.
func WriteFile(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to write to %s", path)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

func header(sb *strings.Builder, width, height float32) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}
