package metrics

import "github.com/Tex6298/levimage-sim/internal/levi"

// PeakTemperature tracks the maximum coil temperature seen during a run.
type PeakTemperature struct {
	name string
	peak float64
	seen bool
}

func NewPeakTemperature() *PeakTemperature {
	return &PeakTemperature{name: "peak_temperature"}
}

func (m *PeakTemperature) Name() string { return m.name }

func (m *PeakTemperature) Observe(s levi.Telemetry) {
	if !m.seen || s.Temperature > m.peak {
		m.peak = s.Temperature
		m.seen = true
	}
}

func (m *PeakTemperature) Value() float64 { return m.peak }

func (m *PeakTemperature) Reset() {
	m.peak = 0
	m.seen = false
}
