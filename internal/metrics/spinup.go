package metrics

import "github.com/Tex6298/levimage-sim/internal/levi"

// SpinupTime records the simulated time of the first sample in HOLD.
// Value returns -1 when the run never acquired the hold band.
type SpinupTime struct {
	name     string
	acquired bool
	at       float64
}

func NewSpinupTime() *SpinupTime {
	return &SpinupTime{name: "spinup_time"}
}

func (m *SpinupTime) Name() string { return m.name }

func (m *SpinupTime) Observe(s levi.Telemetry) {
	if !m.acquired && s.Mode == levi.ModeHold {
		m.acquired = true
		m.at = s.Time
	}
}

func (m *SpinupTime) Value() float64 {
	if !m.acquired {
		return -1
	}
	return m.at
}

func (m *SpinupTime) Reset() {
	m.acquired = false
	m.at = 0
}
