package dynamo

import (
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/physics"
)

// Sink receives every stone of a frame together with the camera pose. The
// stones are fresh copies the sink may keep.
type Sink interface {
	Draw(stones []mesh.Stone, pose camera.Pose, frame int) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(stones []mesh.Stone, pose camera.Pose, frame int) error

func (f SinkFunc) Draw(stones []mesh.Stone, pose camera.Pose, frame int) error {
	return f(stones, pose, frame)
}

type Metric interface {
	Name() string
	Observe(s *physics.Simulation, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, s *physics.Simulation)
}

type Result struct {
	Frames  int
	Time    float64
	Metrics map[string]float64
	// Series holds one value per frame for each metric.
	Series map[string][]float64
	Errors []error
}

func newResult(metrics []Metric, capacity int) *Result {
	r := &Result{
		Metrics: make(map[string]float64, len(metrics)),
		Series:  make(map[string][]float64, len(metrics)),
	}
	for _, m := range metrics {
		r.Series[m.Name()] = make([]float64, 0, capacity)
	}
	return r
}
