package camera_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/anomaly/internal/camera"
)

var _ = Describe("Pose", func() {
	lens := camera.DefaultLens()
	pose := camera.Pose{Eye: mgl32.Vec3{0, 0, 5}, Target: mgl32.Vec3{}, Up: mgl32.Vec3{0, 1, 0}}

	It("projects the target to the screen center", func() {
		x, y, depth, ok := pose.Project(lens, mgl32.Vec3{}, 200, 100)
		Expect(ok).To(BeTrue())
		Expect(x).To(BeNumerically("~", 100, 1e-3))
		Expect(y).To(BeNumerically("~", 50, 1e-3))
		Expect(depth).To(BeNumerically("~", 5, 1e-4))
	})

	It("puts up at the top of the screen", func() {
		_, y, _, ok := pose.Project(lens, mgl32.Vec3{0, 1, 0}, 200, 200)
		Expect(ok).To(BeTrue())
		Expect(y).To(BeNumerically("<", 100))
	})

	It("rejects points behind the eye", func() {
		_, _, _, ok := pose.Project(lens, mgl32.Vec3{0, 0, 10}, 200, 100)
		Expect(ok).To(BeFalse())
	})

	It("orders depth by distance", func() {
		pr := pose.Projector(lens, mgl32.Ident4(), 100, 100)
		_, _, near, _ := pr.Project(mgl32.Vec3{0, 0, 2})
		_, _, far, _ := pr.Project(mgl32.Vec3{0, 0, -2})
		Expect(near).To(BeNumerically("<", far))
	})
})
