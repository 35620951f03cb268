package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != rune(blank|0x1|0x80) {
		t.Errorf("expected dots 1 and 8, got %U", c.Grid[0][0])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != rune(blank|0x80) {
		t.Errorf("expected dot 8 only, got %U", c.Grid[0][0])
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank canvas after clear, got %U", r)
			}
		}
	}
}

func TestFillTriangle(t *testing.T) {
	c := NewCanvas(10, 5)
	red := lipgloss.Color("#ff0000")
	c.FillTriangle([2]float32{0, 0}, [2]float32{20, 0}, [2]float32{0, 20}, 1, 1, red)

	if c.Grid[0][0] != 0x28FF {
		t.Errorf("expected full cell at origin, got %U", c.Grid[0][0])
	}
	if c.colors[0][0] != red {
		t.Errorf("expected red cell, got %q", c.colors[0][0])
	}
	if c.Grid[4][9] != blank {
		t.Errorf("expected far corner untouched, got %U", c.Grid[4][9])
	}
}

func TestFillTriangleWindingIndependent(t *testing.T) {
	a, b := NewCanvas(6, 3), NewCanvas(6, 3)
	a.FillTriangle([2]float32{1, 1}, [2]float32{11, 2}, [2]float32{3, 10}, 1, 1, "")
	b.FillTriangle([2]float32{1, 1}, [2]float32{3, 10}, [2]float32{11, 2}, 1, 1, "")
	if a.String() != b.String() {
		t.Error("expected the same coverage for both windings")
	}
}

func TestFillTriangleDepth(t *testing.T) {
	c := NewCanvas(4, 2)
	near, far := lipgloss.Color("#00ff00"), lipgloss.Color("#0000ff")
	tri := [3][2]float32{{0, 0}, {16, 0}, {0, 16}}

	c.FillTriangle(tri[0], tri[1], tri[2], 1, 0, near)
	c.FillTriangle(tri[0], tri[1], tri[2], 5, 1, far)

	if c.colors[0][0] != near {
		t.Errorf("expected the near color to win, got %q", c.colors[0][0])
	}
	if c.Grid[0][0] != blank {
		t.Errorf("expected the dark near face to hide the far one, got %U", c.Grid[0][0])
	}
}

func TestFillTriangleShading(t *testing.T) {
	lit := func(intensity float32) int {
		c := NewCanvas(1, 1)
		c.FillTriangle([2]float32{-1, -1}, [2]float32{10, -1}, [2]float32{-1, 10}, 1, intensity, "")
		n := 0
		for _, bit := range []rune{0x1, 0x2, 0x4, 0x8, 0x10, 0x20, 0x40, 0x80} {
			if c.Grid[0][0]&bit != 0 {
				n++
			}
		}
		return n
	}

	if got := lit(0); got != 0 {
		t.Errorf("expected no dots at zero intensity, got %d", got)
	}
	if got := lit(0.5); got != 4 {
		t.Errorf("expected half the dots at 0.5, got %d", got)
	}
	if got := lit(1); got != 8 {
		t.Errorf("expected every dot at full intensity, got %d", got)
	}
}

func TestRenderPlain(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 7)
	if got := c.Render(); got != c.String() {
		t.Errorf("expected uncolored render to match String, got %q", got)
	}
	if strings.Count(c.String(), "\n") != 2 {
		t.Errorf("expected two rows, got %q", c.String())
	}
}
