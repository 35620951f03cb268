package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/mesh"
)

const (
	ambient = 0.2
	diffuse = 0.8
)

// Face is a visible triangle in screen space.
type Face struct {
	Points    [3][2]float32
	Depth     float32
	Intensity float32
	Color     colorful.Color
	Stone     int
}

// Scene is everything a driver needs to turn stones into faces.
type Scene struct {
	Pose   camera.Pose
	Lens   camera.Lens
	Model  mgl32.Mat4
	Width  float32
	Height float32
}

// WorldModel scales simulation units into view units and spins the world
// about Y by spin radians.
func WorldModel(scale, spin float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(spin).Mul4(mgl32.Scale3D(scale, scale, scale))
}

// Project returns the faces of stones that point at the eye and lie in
// front of it, farthest first. Lighting is a headlight at the eye.
func Project(stones []mesh.Stone, sc Scene) []Face {
	pr := sc.Pose.Projector(sc.Lens, mgl32.Ident4(), sc.Width, sc.Height)

	faces := make([]Face, 0, len(stones)*64)
	for si := range stones {
		st := &stones[si]
		base := StoneColor(st)

		for t := 0; t < st.Triangles(); t++ {
			a, b, c, n := st.Triangle(t)
			wa := sc.Model.Mul4x1(a.Vec4(1)).Vec3()
			wb := sc.Model.Mul4x1(b.Vec4(1)).Vec3()
			wc := sc.Model.Mul4x1(c.Vec4(1)).Vec3()
			wn := sc.Model.Mul4x1(n.Vec4(0)).Vec3()

			centroid := wa.Add(wb).Add(wc).Mul(1.0 / 3)
			intensity, facing := Headlight(wn, centroid, sc.Pose.Eye)
			if !facing {
				continue
			}

			var f Face
			visible := true
			for k, w := range [3]mgl32.Vec3{wa, wb, wc} {
				x, y, depth, ok := pr.Project(w)
				if !ok {
					visible = false
					break
				}
				f.Points[k] = [2]float32{x, y}
				f.Depth += depth / 3
			}
			if !visible {
				continue
			}

			f.Intensity = intensity
			f.Color = base
			f.Stone = si
			faces = append(faces, f)
		}
	}

	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Depth > faces[j].Depth })
	return faces
}

// Headlight lights a face with normal n at centroid from a lamp at the eye.
// facing is false for faces turned away from the eye.
func Headlight(n, centroid, eye mgl32.Vec3) (intensity float32, facing bool) {
	toEye := eye.Sub(centroid)
	dot := n.Dot(toEye)
	if dot <= 0 {
		return 0, false
	}
	return ambient + diffuse*dot/(n.Len()*toEye.Len()), true
}
