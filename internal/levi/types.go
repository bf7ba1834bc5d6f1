package levi

import "math"

// Mode is the supervisory operating mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSpinup
	ModeHold
	ModeBrake
	ModeFault
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSpinup:
		return "SPINUP"
	case ModeHold:
		return "HOLD"
	case ModeBrake:
		return "BRAKE"
	case ModeFault:
		return "FAULT"
	default:
		return "UNKNOWN"
	}
}

// Command is an operator intent. At most one command is consumed per tick;
// if several arrive between ticks the latest wins.
type Command int

const (
	CommandNone Command = iota
	CommandStart
	CommandBrake
	CommandStop
	CommandResetFault
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandStart:
		return "start"
	case CommandBrake:
		return "brake"
	case CommandStop:
		return "stop"
	case CommandResetFault:
		return "reset-fault"
	default:
		return "unknown"
	}
}

// LossPowers is the per-term parasitic power breakdown, in watts.
type LossPowers struct {
	Eddy       float64
	Gas        float64
	Viscous    float64
	Mechanical float64
}

func (l LossPowers) Total() float64 {
	return l.Eddy + l.Gas + l.Viscous + l.Mechanical
}

// Telemetry is one immutable per-tick sample. It is created by the
// simulation driver and handed off by value; it never aliases live state.
type Telemetry struct {
	Time        float64
	RPM         float64
	Theta       float64
	Omega       float64
	Temperature float64
	Losses      LossPowers
	JoulePower  float64
	Current     float64
	Duty        float64
	Mode        Mode
}

// Metric accumulates a scalar over a run from the telemetry stream.
type Metric interface {
	Name() string
	Observe(s Telemetry)
	Value() float64
	Reset()
}

// Observer receives every emitted sample.
type Observer interface {
	OnSample(s Telemetry)
}

const radPerSecToRPM = 60.0 / (2 * math.Pi)

// RPM converts an angular velocity in rad/s to revolutions per minute.
func RPM(omega float64) float64 { return omega * radPerSecToRPM }

// OmegaFromRPM converts revolutions per minute to rad/s.
func OmegaFromRPM(rpm float64) float64 { return rpm / radPerSecToRPM }
