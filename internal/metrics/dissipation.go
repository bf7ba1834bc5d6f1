package metrics

import "github.com/Tex6298/levimage-sim/internal/levi"

// LossEnergy integrates total parasitic loss power over the run, giving
// the energy dissipated by eddy, gas, viscous and mechanical drag in
// joules. Integration is rectangular over the sample spacing.
type LossEnergy struct {
	name     string
	total    float64
	prevTime float64
	started  bool
}

func NewLossEnergy() *LossEnergy {
	return &LossEnergy{name: "loss_energy"}
}

func (m *LossEnergy) Name() string { return m.name }

func (m *LossEnergy) Observe(s levi.Telemetry) {
	if m.started {
		dt := s.Time - m.prevTime
		if dt > 0 {
			m.total += s.Losses.Total() * dt
		}
	}
	m.prevTime = s.Time
	m.started = true
}

func (m *LossEnergy) Value() float64 { return m.total }

func (m *LossEnergy) Reset() {
	m.total = 0
	m.prevTime = 0
	m.started = false
}
