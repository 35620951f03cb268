package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// bayer orders the dots of a cell for shading.
var bayer = [4][2]float32{
	{0.5 / 8, 4.5 / 8},
	{6.5 / 8, 2.5 / 8},
	{1.5 / 8, 5.5 / 8},
	{7.5 / 8, 3.5 / 8},
}

const blank = 0x2800

// Canvas is Width x Height terminal cells of 2x4 dots each. Fill keeps a
// depth per dot; the nearest surface of a cell decides its color.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	colors    [][]lipgloss.Color
	cellDepth [][]float32
	depth     []float32
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:     w,
		Height:    h,
		Grid:      make([][]rune, h),
		colors:    make([][]lipgloss.Color, h),
		cellDepth: make([][]float32, h),
		depth:     make([]float32, w*2*h*4),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.colors[i] = make([]lipgloss.Color, w)
		c.cellDepth[i] = make([]float32, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.colors[i][j] = ""
			c.cellDepth[i][j] = math.MaxFloat32
		}
	}
	for i := range c.depth {
		c.depth[i] = math.MaxFloat32
	}
}

// Plot writes one dot if depth is nearer than what the dot already holds.
// on decides whether the dot is lit; an unlit near dot still hides what is
// behind it.
func (c *Canvas) Plot(x, y int, depth float32, on bool, color lipgloss.Color) {
	dw, dh := c.Dots()
	if x < 0 || y < 0 || x >= dw || y >= dh {
		return
	}
	i := y*dw + x
	if depth >= c.depth[i] {
		return
	}
	c.depth[i] = depth

	if on {
		c.Set(x, y)
	} else {
		c.Unset(x, y)
	}

	row, col := y/4, x/2
	if depth < c.cellDepth[row][col] {
		c.cellDepth[row][col] = depth
		c.colors[row][col] = color
	}
}

// FillTriangle rasterizes a triangle given in dot coordinates at a single
// depth. intensity in [0, 1] sets how many dots are lit.
func (c *Canvas) FillTriangle(a, b, p [2]float32, depth float32, intensity float32, color lipgloss.Color) {
	dw, dh := c.Dots()
	minX := clampInt(int(math.Floor(float64(min(a[0], b[0], p[0])))), 0, dw-1)
	maxX := clampInt(int(math.Ceil(float64(max(a[0], b[0], p[0])))), 0, dw-1)
	minY := clampInt(int(math.Floor(float64(min(a[1], b[1], p[1])))), 0, dh-1)
	maxY := clampInt(int(math.Ceil(float64(max(a[1], b[1], p[1])))), 0, dh-1)

	area := edge(a, b, p)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			q := [2]float32{float32(x) + 0.5, float32(y) + 0.5}
			w0, w1, w2 := edge(b, p, q), edge(p, a, q), edge(a, b, q)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c.Plot(x, y, depth, intensity > bayer[y%4][x%2], color)
		}
	}
}

// Color is the color of the nearest surface in cell (row, col), or "" when
// nothing colored was drawn there.
func (c *Canvas) Color(row, col int) lipgloss.Color {
	if row < 0 || col < 0 || row >= c.Height || col >= c.Width {
		return ""
	}
	return c.colors[row][col]
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with cell colors. Runs of one color share a style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for col := 1; col <= len(row); col++ {
			if col < len(row) && c.colors[r][col] == c.colors[r][start] {
				continue
			}
			run := string(row[start:col])
			if color := c.colors[r][start]; color != "" {
				run = lipgloss.NewStyle().Foreground(color).Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteString("\n")
	}
	return b.String()
}

func edge(a, b, p [2]float32) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
