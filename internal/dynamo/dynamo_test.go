package dynamo

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/camera"
	"github.com/san-kum/anomaly/internal/compute"
	"github.com/san-kum/anomaly/internal/integrators"
	"github.com/san-kum/anomaly/internal/mesh"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCore(sim *physics.Simulation) *Core {
	return NewCore(sim, integrators.NewEuler(), compute.NewSerialBackend(), physics.NewCoulomb(1, 0.05))
}

func randomSim(n int, seed int64) *physics.Simulation {
	rng := rand.New(rand.NewSource(seed))
	s := physics.New(n)
	for i := 0; i < n; i++ {
		pos := vecmath.Rand32(0, 20, rng)
		vel := vecmath.Normalize64(vecmath.Rand64(0, 10, rng)).Mul(0.1)
		if i%2 == 0 {
			s.Elementary(pos, vel, true)
		} else {
			s.Composite(pos, vel, true, true, rng.Intn(3), 0)
		}
	}
	return s
}

type recorder struct {
	frames []int
	counts []int
	poses  []camera.Pose
	err    error
}

func (r *recorder) Draw(stones []mesh.Stone, pose camera.Pose, frame int) error {
	r.frames = append(r.frames, frame)
	r.counts = append(r.counts, len(stones))
	r.poses = append(r.poses, pose)
	return r.err
}

type frameCounter struct{ n int }

func (f *frameCounter) Name() string                         { return "frames" }
func (f *frameCounter) Observe(*physics.Simulation, float64) { f.n++ }
func (f *frameCounter) Value() float64                       { return float64(f.n) }
func (f *frameCounter) Reset()                               { f.n = 0 }

func TestCoreTwoElectrons(t *testing.T) {
	s := physics.New(2)
	s.Elementary(mgl32.Vec3{0, 0, 0}, mgl64.Vec3{}, true)
	s.Elementary(mgl32.Vec3{1, 0, 0}, mgl64.Vec3{}, true)
	core := newCore(s)

	core.Step(0.01)

	a, b := s.Particle(0), s.Particle(1)
	assert.Less(t, a.Position.X(), float32(0))
	assert.Greater(t, b.Position.X(), float32(1))
	assert.InDelta(t, -a.Position.X(), b.Position.X()-1, 1e-6)
	assert.True(t, core.Valid())
	assert.Equal(t, 1, core.Steps())
	assert.InDelta(t, 0.01, core.Time(), 1e-15)
}

func TestCoreIgnoresBadDt(t *testing.T) {
	s := randomSim(4, 1)
	core := newCore(s)
	before := s.Particles()

	core.Step(0)
	core.Step(-1)

	assert.Equal(t, before, s.Particles())
	assert.Zero(t, core.Steps())
}

func TestRenderViewEmpty(t *testing.T) {
	view := newCore(physics.New(0)).RenderView()
	require.NotNil(t, view)
	assert.Empty(t, view)
}

func TestRenderViewMatchesGenerate(t *testing.T) {
	s := randomSim(40, 2)
	s.SetActive(5, false)
	core := newCore(s)
	core.Step(0.01)

	assert.Equal(t, mesh.Generate(s), core.RenderView())
}

func TestSpawnBetweenSteps(t *testing.T) {
	s := randomSim(4, 3)
	core := newCore(s)
	core.Step(0.01)

	idx, err := core.Spawn(physics.Particle{Kind: physics.Composite, Family: 1, Active: true, Stable: true})
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	core.Step(0.01)
	assert.Len(t, core.RenderView(), 5)

	_, err = core.Spawn(physics.Particle{Kind: physics.Composite, Flavor: -1})
	assert.True(t, errors.Is(err, physics.ErrNegativeIndex))
}

func TestRunnerFrame(t *testing.T) {
	rec := &recorder{}
	core := newCore(randomSim(6, 4))
	r := NewRunner(core, camera.Default(), camera.DefaultSteps(), rec, 0.01)

	var in camera.Input
	in.Press(camera.Forward)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Frame(in))
	}

	assert.Equal(t, []int{0, 1, 2}, rec.frames)
	assert.Equal(t, []int{6, 6, 6}, rec.counts)
	assert.NotEqual(t, rec.poses[0], rec.poses[2])
	assert.Equal(t, 3, core.Steps())
	assert.Equal(t, 3, r.FrameCount())
	assert.Equal(t, rec.poses[2], r.Camera().Pose())
}

func TestRunnerSinkError(t *testing.T) {
	boom := errors.New("device lost")
	core := newCore(randomSim(4, 5))
	r := NewRunner(core, camera.Default(), camera.DefaultSteps(), &recorder{err: boom}, 0.01)

	err := r.Frame(camera.Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	var fe *FrameError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.Frame)
	assert.Equal(t, 1, core.Steps())
	assert.True(t, core.Valid())

	res, err := r.Run(context.Background(), 10)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 2, res.Frames)
}

func TestRunnerRun(t *testing.T) {
	core := newCore(randomSim(8, 6))
	r := NewRunner(core, camera.Default(), camera.DefaultSteps(), nil, 0.01)
	r.AddMetric(&frameCounter{})

	res, err := r.Run(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Frames)
	assert.Len(t, res.Series["frames"], 25)
	assert.Equal(t, 25.0, res.Metrics["frames"])
	assert.InDelta(t, 0.25, res.Time, 1e-12)
	assert.Empty(t, res.Errors)
}

func TestRunnerHistoryLimit(t *testing.T) {
	r := NewRunner(newCore(randomSim(4, 9)), camera.Default(), camera.DefaultSteps(), nil, 0.01)
	r.AddMetric(&frameCounter{})
	r.SetHistoryLimit(10)

	res, err := r.Run(context.Background(), 25)
	require.NoError(t, err)
	series := res.Series["frames"]
	require.Len(t, series, 10)
	assert.Equal(t, 16.0, series[0])
	assert.Equal(t, 25.0, series[9])
}

func TestRunnerRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(newCore(randomSim(4, 7)), camera.Default(), camera.DefaultSteps(), nil, 0.01)
	res, err := r.Run(ctx, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Frames)
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	r := NewRunner(newCore(physics.New(0)), camera.Default(), camera.DefaultSteps(), nil, 0)
	_, err := r.Run(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	r = NewRunner(newCore(physics.New(0)), camera.Default(), camera.DefaultSteps(), nil, 0.01)
	_, err = r.Run(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunEnsemble(t *testing.T) {
	build := func(run int) (*Runner, error) {
		core := newCore(randomSim(6, int64(run)))
		r := NewRunner(core, camera.Default(), camera.DefaultSteps(), nil, 0.01)
		r.AddMetric(&frameCounter{})
		return r, nil
	}

	results, err := RunEnsemble(context.Background(), 3, 10, build)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, 10, res.Frames)
	}

	bad := errors.New("no scene")
	_, err = RunEnsemble(context.Background(), 2, 10, func(run int) (*Runner, error) {
		if run == 1 {
			return nil, bad
		}
		return build(run)
	})
	assert.ErrorIs(t, err, bad)
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		hits := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}
