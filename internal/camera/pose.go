package camera

import "github.com/go-gl/mathgl/mgl32"

// Pose is the read-only view of a camera handed to render drivers.
type Pose struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

type Lens struct {
	FOV  float32
	Near float32
	Far  float32
}

func DefaultLens() Lens {
	return Lens{FOV: mgl32.DegToRad(90), Near: 0.01, Far: 100}
}

func (p Pose) View() mgl32.Mat4 {
	return mgl32.LookAtV(p.Eye, p.Target, p.Up)
}

func (p Pose) Projection(lens Lens, aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(lens.FOV, aspect, lens.Near, lens.Far)
}

// Projector maps world points to screen coordinates for one frame.
type Projector struct {
	mvp    mgl32.Mat4
	near   float32
	far    float32
	width  float32
	height float32
}

// Projector combines model, view and projection. Screen y grows downward.
func (p Pose) Projector(lens Lens, model mgl32.Mat4, width, height float32) Projector {
	aspect := float32(1)
	if height > 0 {
		aspect = width / height
	}
	return Projector{
		mvp:    p.Projection(lens, aspect).Mul4(p.View()).Mul4(model),
		near:   lens.Near,
		far:    lens.Far,
		width:  width,
		height: height,
	}
}

// Project returns the screen position of w and its distance along the view
// axis. ok is false when w lies outside the near and far planes.
func (pr Projector) Project(w mgl32.Vec3) (x, y, depth float32, ok bool) {
	clip := pr.mvp.Mul4x1(w.Vec4(1))
	depth = clip.W()
	if depth < pr.near || depth > pr.far {
		return 0, 0, depth, false
	}
	nx, ny := clip.X()/depth, clip.Y()/depth
	x = (nx + 1) * 0.5 * pr.width
	y = (1 - ny) * 0.5 * pr.height
	return x, y, depth, true
}

// Project is a one-off projection with an identity model matrix.
func (p Pose) Project(lens Lens, w mgl32.Vec3, width, height float32) (x, y, depth float32, ok bool) {
	return p.Projector(lens, mgl32.Ident4(), width, height).Project(w)
}
