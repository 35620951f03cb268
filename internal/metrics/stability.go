package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/anomaly/internal/physics"
	"github.com/san-kum/anomaly/internal/vecmath"
)

// NetForce is the largest magnitude of the summed internal force seen so
// far. Pairwise forces cancel, so anything above rounding noise means the
// force pass lost its symmetry.
type NetForce struct {
	name string
	max  float64
}

func NewNetForce() *NetForce {
	return &NetForce{name: "net_force"}
}

func (n *NetForce) Name() string { return n.name }

func (n *NetForce) Observe(s *physics.Simulation, t float64) {
	var sum mgl64.Vec3
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Active {
			sum = sum.Add(s.Force(i))
		}
	}
	n.max = math.Max(n.max, sum.Len())
}

func (n *NetForce) Value() float64 { return n.max }
func (n *NetForce) Reset()         { n.max = 0 }

// MomentumDrift is the largest distance of the total momentum from its
// first observed value.
type MomentumDrift struct {
	name    string
	initial mgl64.Vec3
	max     float64
	samples int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s *physics.Simulation, t float64) {
	p := Momentum(s)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.max = math.Max(m.max, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.max = 0
	m.samples = 0
}

func Momentum(s *physics.Simulation) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < s.Len(); i++ {
		if q := s.At(i); q.Active {
			p = p.Add(q.Velocity)
		}
	}
	return p
}

// Spread is the RMS distance of the active particles from their centroid.
type Spread struct {
	name  string
	value float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (sp *Spread) Name() string { return sp.name }

func (sp *Spread) Observe(s *physics.Simulation, t float64) {
	var c mgl64.Vec3
	n := 0
	for i := 0; i < s.Len(); i++ {
		if p := s.At(i); p.Active {
			c = c.Add(vecmath.To64(p.Position))
			n++
		}
	}
	if n == 0 {
		sp.value = 0
		return
	}
	c = c.Mul(1 / float64(n))

	sum := 0.0
	for i := 0; i < s.Len(); i++ {
		if p := s.At(i); p.Active {
			d := vecmath.To64(p.Position).Sub(c)
			sum += d.Dot(d)
		}
	}
	sp.value = math.Sqrt(sum / float64(n))
}

func (sp *Spread) Value() float64 { return sp.value }
func (sp *Spread) Reset()         { sp.value = 0 }

// Stability is the fraction of observations in which every active particle
// stayed finite and within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (st *Stability) Name() string {
	return st.name
}

func (st *Stability) Observe(s *physics.Simulation, t float64) {
	st.samples++
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		if !p.Active {
			continue
		}
		if !vecmath.Finite32(p.Position) || float64(p.Position.Len()) > st.threshold {
			st.violations++
			break
		}
	}
}

func (st *Stability) Value() float64 {
	if st.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(st.violations)/float64(st.samples)
}

func (st *Stability) Reset() {
	st.violations = 0
	st.samples = 0
}
