// Package camera is the fly-through controller: an eye, a look target and
// an up vector moved and turned by signed amounts each frame.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// DefaultPitchMargin keeps forward this many radians away from up and down.
const DefaultPitchMargin = 0.01

type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	PitchMargin float32
}

func New(eye, target, up mgl32.Vec3) *Camera {
	return &Camera{Eye: eye, Target: target, Up: up, PitchMargin: DefaultPitchMargin}
}

// Default is the starting pose: slightly behind and above the origin,
// looking at it with up along -Y.
func Default() *Camera {
	return New(mgl32.Vec3{0, -1, 1}, mgl32.Vec3{}, mgl32.Vec3{0, -1, 0})
}

func (c Camera) Pose() Pose {
	return Pose{Eye: c.Eye, Target: c.Target, Up: c.Up}
}

func (c Camera) Forward() mgl32.Vec3 { return vecmath.Normalize32(c.Target.Sub(c.Eye)) }

// Right is forward x up, normalized.
func (c Camera) Right() mgl32.Vec3 {
	return vecmath.Normalize32(c.Target.Sub(c.Eye).Cross(c.Up))
}

func (c *Camera) translate(d mgl32.Vec3) {
	c.Eye = c.Eye.Add(d)
	c.Target = c.Target.Add(d)
}

func (c *Camera) MoveForward(m float32)   { c.translate(c.Forward().Mul(m)) }
func (c *Camera) MoveSideways(m float32)  { c.translate(c.Right().Mul(m)) }
func (c *Camera) MoveElevation(m float32) { c.translate(vecmath.Normalize32(c.Up).Mul(m)) }

// turn rotates the look vector about axis, keeping its length.
func (c *Camera) turn(axis mgl32.Vec3, m float32) {
	if axis.Len() == 0 || m == 0 {
		return
	}
	look := c.Target.Sub(c.Eye)
	c.Target = c.Eye.Add(mgl32.QuatRotate(m, axis).Rotate(look))
}

// RotateHorizontal yaws forward about up.
func (c *Camera) RotateHorizontal(m float32) {
	c.turn(vecmath.Normalize32(c.Up), m)
}

// RotateVertical pitches forward about right. Positive m turns toward up.
// The rotation is shortened so the angle between forward and up stays in
// [PitchMargin, pi-PitchMargin]; it is never reversed.
func (c *Camera) RotateVertical(m float32) {
	right := c.Right()
	if right.Len() == 0 {
		return
	}

	theta := c.pitchAngle()
	if m > 0 {
		room := theta - c.PitchMargin
		if room < 0 {
			room = 0
		}
		if m > room {
			m = room
		}
	} else {
		room := (math.Pi - c.PitchMargin) - theta
		if room < 0 {
			room = 0
		}
		if -m > room {
			m = -room
		}
	}
	c.turn(right, m)
}

// pitchAngle is the angle between forward and up.
func (c *Camera) pitchAngle() float32 {
	cos := c.Forward().Dot(vecmath.Normalize32(c.Up))
	return float32(math.Acos(float64(mgl32.Clamp(cos, -1, 1))))
}

// RotateUp rolls the camera about forward. Up is first made orthonormal to
// forward.
func (c *Camera) RotateUp(m float32) {
	f := c.Forward()
	if f.Len() == 0 {
		return
	}

	up := vecmath.Normalize32(c.Up.Sub(f.Mul(c.Up.Dot(f))))
	if up.Len() == 0 {
		up = perpendicular(f)
	}
	c.Up = vecmath.Normalize32(mgl32.QuatRotate(m, f).Rotate(up))
}

func perpendicular(f mgl32.Vec3) mgl32.Vec3 {
	p := f.Cross(mgl32.Vec3{1, 0, 0})
	if p.Len() < 1e-3 {
		p = f.Cross(mgl32.Vec3{0, 1, 0})
	}
	return vecmath.Normalize32(p)
}

type MoveAxis uint8

const (
	AxisForward MoveAxis = iota
	AxisSideways
	AxisElevation
)

type RotationAxis uint8

const (
	AxisHorizontal RotationAxis = iota
	AxisVertical
	AxisRoll
)

func (c *Camera) ApplyMove(axis MoveAxis, m float32) {
	switch axis {
	case AxisForward:
		c.MoveForward(m)
	case AxisSideways:
		c.MoveSideways(m)
	case AxisElevation:
		c.MoveElevation(m)
	}
}

func (c *Camera) ApplyRotation(axis RotationAxis, m float32) {
	switch axis {
	case AxisHorizontal:
		c.RotateHorizontal(m)
	case AxisVertical:
		c.RotateVertical(m)
	case AxisRoll:
		c.RotateUp(m)
	}
}
