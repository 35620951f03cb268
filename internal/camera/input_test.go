package camera_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/anomaly/internal/camera"
)

var _ = Describe("Input", func() {
	var in camera.Input

	BeforeEach(func() {
		in = camera.Input{}
	})

	It("tracks held actions", func() {
		in.Press(camera.Forward)
		Expect(in.Held(camera.Forward)).To(BeTrue())
		in.Release(camera.Forward)
		Expect(in.Held(camera.Forward)).To(BeFalse())
	})

	It("flips spin once per press of the toggle", func() {
		in.Press(camera.ToggleSpin)
		in.Press(camera.ToggleSpin)
		Expect(in.Spin).To(BeTrue())
		in.Release(camera.ToggleSpin)
		in.Press(camera.ToggleSpin)
		Expect(in.Spin).To(BeFalse())
	})

	It("ignores out of range actions", func() {
		in.Press(camera.NumActions)
		Expect(in.Held(camera.NumActions)).To(BeFalse())
	})

	DescribeTable("parses action names",
		func(name string, want camera.Action) {
			got, err := camera.ParseAction(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(got.String()).To(Equal(want.String()))
		},
		Entry("forward", "forward", camera.Forward),
		Entry("mixed case", " Roll_Left ", camera.RollLeft),
		Entry("toggle", "toggle_spin", camera.ToggleSpin),
	)

	It("rejects unknown action names", func() {
		_, err := camera.ParseAction("jump")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Update", func() {
	steps := camera.DefaultSteps()

	It("does not modify its argument", func() {
		cam := *camera.Default()
		var in camera.Input
		in.Press(camera.Forward)
		in.Press(camera.YawLeft)

		next := camera.Update(cam, in, steps)
		Expect(cam.Pose()).To(Equal(camera.Default().Pose()))
		Expect(next.Pose()).NotTo(Equal(cam.Pose()))
	})

	It("applies one increment per held action", func() {
		cam := *camera.Default()
		var in camera.Input
		in.Press(camera.Forward)

		next := camera.Update(cam, in, steps)
		Expect(next.Eye.Sub(cam.Eye).Len()).To(BeNumerically("~", steps.Move, 1e-6))
		Expect(next.Eye.Sub(cam.Eye).Normalize().ApproxEqualThreshold(cam.Forward(), 1e-5)).To(BeTrue())
	})

	It("cancels opposite actions", func() {
		cam := *camera.Default()
		var in camera.Input
		in.Press(camera.Left)
		in.Press(camera.Right)

		Expect(camera.Update(cam, in, steps).Pose()).To(Equal(cam.Pose()))
	})

	It("is a no-op without input", func() {
		cam := *camera.Default()
		Expect(camera.Update(cam, camera.Input{}, steps).Pose()).To(Equal(cam.Pose()))
	})

	It("yaws with pointer motion", func() {
		cam := *camera.Default()
		var in camera.Input
		in.Look(40, 0)

		next := camera.Update(cam, in, steps)
		want := cam
		want.RotateHorizontal(-40 * steps.Mouse)
		Expect(next.Pose()).To(Equal(want.Pose()))
		Expect(next.Eye).To(Equal(cam.Eye))

		in.ClearMotion()
		Expect(in.MouseDX).To(BeZero())
	})

	It("keeps the pose finite over a long flight", func() {
		cam := *camera.Default()
		var in camera.Input
		for _, a := range []camera.Action{camera.Forward, camera.YawLeft, camera.PitchUp, camera.RollRight} {
			in.Press(a)
		}
		for i := 0; i < 2000; i++ {
			cam = camera.Update(cam, in, steps)
		}
		for _, v := range []mgl32.Vec3{cam.Eye, cam.Target, cam.Up} {
			for _, c := range v {
				Expect(c).To(BeNumerically("<", 1e6))
				Expect(c).To(BeNumerically(">", -1e6))
			}
		}
	})
})
