package metrics

import (
	"math"

	"github.com/san-kum/anomaly/internal/physics"
)

// KineticEnergy is the latest total kinetic energy of the active particles.
// Every particle has unit inertia.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *physics.Simulation, t float64) {
	k.value = Kinetic(s)
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

func Kinetic(s *physics.Simulation) float64 {
	ke := 0.0
	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		if p.Active {
			ke += 0.5 * p.Velocity.Dot(p.Velocity)
		}
	}
	return ke
}

// Potential sums the pair potential over unordered active pairs.
func Potential(s *physics.Simulation, law physics.Potential) float64 {
	pe := 0.0
	for i := 0; i < s.Len(); i++ {
		a := s.At(i)
		if !a.Active {
			continue
		}
		for j := i + 1; j < s.Len(); j++ {
			b := s.At(j)
			if b.Active {
				pe += law.PairPotential(a, b)
			}
		}
	}
	return pe
}

// EnergyDrift tracks the largest relative change of kinetic plus potential
// energy since the first observation.
type EnergyDrift struct {
	name          string
	law           physics.Potential
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(law physics.Potential) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		law:  law,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *physics.Simulation, t float64) {
	energy := Kinetic(s) + Potential(s, e.law)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Energy is the total energy at the last observation.
func (e *EnergyDrift) Energy() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
