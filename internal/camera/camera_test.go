package camera_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/anomaly/internal/camera"
)

func angle(a, b mgl32.Vec3) float64 {
	cos := float64(a.Normalize().Dot(b.Normalize()))
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

func lookDistance(c *camera.Camera) float32 { return c.Target.Sub(c.Eye).Len() }

func expectVec(got, want mgl32.Vec3) {
	ExpectWithOffset(1, got.ApproxEqualThreshold(want, 1e-5)).To(BeTrue(), "got %v, want %v", got, want)
}

var _ = Describe("Camera", func() {
	var cam *camera.Camera

	BeforeEach(func() {
		cam = camera.Default()
	})

	It("starts at the default pose", func() {
		pose := cam.Pose()
		Expect(pose.Eye).To(Equal(mgl32.Vec3{0, -1, 1}))
		Expect(pose.Target).To(Equal(mgl32.Vec3{}))
		Expect(pose.Up).To(Equal(mgl32.Vec3{0, -1, 0}))
	})

	Describe("moving", func() {
		It("keeps the look direction and distance when moving forward", func() {
			before := cam.Forward()
			dist := lookDistance(cam)
			eye := cam.Eye

			cam.MoveForward(0.5)

			expectVec(cam.Forward(), before)
			Expect(lookDistance(cam)).To(BeNumerically("~", dist, 1e-5))
			Expect(cam.Eye.Sub(eye).Len()).To(BeNumerically("~", 0.5, 1e-5))
		})

		It("moves sideways perpendicular to forward", func() {
			eye := cam.Eye
			cam.MoveSideways(0.3)
			d := cam.Eye.Sub(eye)
			Expect(d.Dot(cam.Forward())).To(BeNumerically("~", 0, 1e-5))
			Expect(d.Len()).To(BeNumerically("~", 0.3, 1e-5))
		})

		It("moves along up for elevation", func() {
			cam.MoveElevation(2)
			expectVec(cam.Eye, mgl32.Vec3{0, -3, 1})
			expectVec(cam.Target, mgl32.Vec3{0, -2, 0})
		})

		It("dispatches by axis", func() {
			other := camera.Default()
			cam.ApplyMove(camera.AxisSideways, -0.2)
			other.MoveSideways(-0.2)
			Expect(cam.Pose()).To(Equal(other.Pose()))
		})
	})

	Describe("rotating", func() {
		It("keeps the look distance and up when yawing", func() {
			dist := lookDistance(cam)
			up := cam.Up
			cam.RotateHorizontal(0.7)
			Expect(lookDistance(cam)).To(BeNumerically("~", dist, 1e-5))
			Expect(cam.Up).To(Equal(up))
			Expect(cam.Eye).To(Equal(mgl32.Vec3{0, -1, 1}))
		})

		It("turns forward toward up for a positive pitch", func() {
			before := angle(cam.Forward(), cam.Up)
			cam.RotateVertical(0.1)
			Expect(angle(cam.Forward(), cam.Up)).To(BeNumerically("~", before-0.1, 1e-4))
			Expect(lookDistance(cam)).To(BeNumerically("~", math.Sqrt2, 1e-5))
		})

		It("clamps the pitch near up", func() {
			for i := 0; i < 1000; i++ {
				cam.RotateVertical(0.01)
			}
			a := angle(cam.Forward(), cam.Up)
			Expect(a).To(BeNumerically(">=", camera.DefaultPitchMargin-1e-3))
			Expect(a).To(BeNumerically("<", 0.05))
		})

		It("clamps the pitch near down", func() {
			for i := 0; i < 1000; i++ {
				cam.RotateVertical(-0.01)
			}
			a := angle(cam.Forward(), cam.Up)
			Expect(a).To(BeNumerically("<=", math.Pi-camera.DefaultPitchMargin+1e-3))
			Expect(a).To(BeNumerically(">", math.Pi-0.05))
		})

		It("never crosses the pole in a single large step", func() {
			cam.RotateVertical(10)
			Expect(angle(cam.Forward(), cam.Up)).To(BeNumerically(">=", camera.DefaultPitchMargin-1e-3))
		})

		It("keeps up unit and orthogonal to forward when rolling", func() {
			for i := 0; i < 50; i++ {
				cam.RotateUp(0.13)
				Expect(cam.Up.Len()).To(BeNumerically("~", 1, 1e-5))
				Expect(cam.Up.Dot(cam.Forward())).To(BeNumerically("~", 0, 1e-5))
			}
		})

		It("rolls by the requested angle", func() {
			cam.RotateUp(0)
			start := cam.Up
			cam.RotateUp(math.Pi / 2)
			Expect(angle(start, cam.Up)).To(BeNumerically("~", math.Pi/2, 1e-4))
		})

		It("repairs an up vector parallel to forward", func() {
			cam.Up = cam.Forward()
			cam.RotateUp(0.2)
			Expect(cam.Up.Len()).To(BeNumerically("~", 1, 1e-5))
			Expect(cam.Up.Dot(cam.Forward())).To(BeNumerically("~", 0, 1e-5))
		})

		It("dispatches by axis", func() {
			other := camera.Default()
			cam.ApplyRotation(camera.AxisRoll, 0.3)
			other.RotateUp(0.3)
			Expect(cam.Pose()).To(Equal(other.Pose()))
		})
	})
})
