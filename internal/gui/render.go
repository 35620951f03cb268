package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/viz"
)

// windowSink keeps the last frame for the draw pass. raylib wants drawing
// between BeginDrawing and EndDrawing, which the App owns.
type windowSink struct {
	stones []mesh.Stone
	pose   camera.Pose
	frame  int
}

func (s *windowSink) Draw(stones []mesh.Stone, pose camera.Pose, frame int) error {
	s.stones, s.pose, s.frame = stones, pose, frame
	return nil
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func color(c colorful.Color) rl.Color {
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

func camera3D(pose camera.Pose, lens camera.Lens) rl.Camera3D {
	return rl.NewCamera3D(
		vec(pose.Eye),
		vec(pose.Target),
		vec(pose.Up),
		mgl32.RadToDeg(lens.FOV),
		rl.CameraPerspective,
	)
}

// RenderStones draws every face turned toward the eye, lit like the
// terminal driver.
func (a *App) RenderStones() int {
	model := viz.WorldModel(a.scale, a.spin)
	eye := a.sink.pose.Eye
	drawn := 0

	for si := range a.sink.stones {
		st := &a.sink.stones[si]
		base := viz.StoneColor(st)

		for t := 0; t < st.Triangles(); t++ {
			p, q, r, n := st.Triangle(t)
			wp := model.Mul4x1(p.Vec4(1)).Vec3()
			wq := model.Mul4x1(q.Vec4(1)).Vec3()
			wr := model.Mul4x1(r.Vec4(1)).Vec3()
			wn := model.Mul4x1(n.Vec4(0)).Vec3()

			intensity, facing := viz.Headlight(wn, wp.Add(wq).Add(wr).Mul(1.0/3), eye)
			if !facing {
				continue
			}
			rl.DrawTriangle3D(vec(wp), vec(wq), vec(wr), color(viz.Shade(base, intensity)))
			drawn++
		}
	}
	return drawn
}

func (a *App) DrawTelemetry() {
	ke := a.runner.Result().Series["kinetic_energy"]
	if len(ke) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := ke[0], ke[0]
	for _, v := range ke {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(ke))
	for i, val := range ke {
		px := float32(rectX) + (float32(i)/float32(len(ke)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("KE: %.2e", ke[len(ke)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
