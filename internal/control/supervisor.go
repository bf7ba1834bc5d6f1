package control

import (
	"math"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

// Inputs are the per-tick inputs to the supervisor. RPM and Temperature
// are derived readings; InterlockOpen reports the external interlock chain
// (vacuum, containment) and trips FAULT like the built-in limits when set.
type Inputs struct {
	Command       levi.Command
	RPM           float64
	Temperature   float64
	InterlockOpen bool
}

// Output is the drive policy for the current tick.
type Output struct {
	// Current is the signed commanded current, already bounded by IMax.
	Current float64
	// Bootstrap enables the scheduler's start-from-rest rule (SPINUP only).
	Bootstrap bool
}

// Supervisor is the mode state machine. It holds the only cross-tick
// decision memory in the system: mode, hold dwell timer, fault latch.
type Supervisor struct {
	mode       levi.Mode
	holdTimer  float64
	faultLatch bool
}

// NewSupervisor returns a supervisor in IDLE with the latch clear.
func NewSupervisor() *Supervisor {
	return &Supervisor{mode: levi.ModeIdle}
}

func (s *Supervisor) Mode() levi.Mode    { return s.mode }
func (s *Supervisor) FaultLatched() bool { return s.faultLatch }
func (s *Supervisor) HoldTimer() float64 { return s.holdTimer }

// Reset returns the supervisor to its initial state, latch included.
func (s *Supervisor) Reset() {
	s.mode = levi.ModeIdle
	s.holdTimer = 0
	s.faultLatch = false
}

// Tick evaluates one control cycle and returns the drive policy.
// Evaluation order: interlocks first, then the pending command, then
// automatic transitions, so a limit violation is never masked by a
// command. Mis-sequenced commands are no-ops.
func (s *Supervisor) Tick(p levi.Params, in Inputs) Output {
	violating := s.violation(p, in)

	if s.mode != levi.ModeFault && violating {
		s.faultLatch = true
		s.mode = levi.ModeFault
		s.holdTimer = 0
	}

	switch in.Command {
	case levi.CommandStop:
		// Stop works everywhere except FAULT: a tripped interlock needs
		// explicit acknowledgment, Stop alone cannot clear it.
		s.holdTimer = 0
		if s.mode != levi.ModeFault {
			s.mode = levi.ModeIdle
		}
	case levi.CommandResetFault:
		// Rejected, not queued, while a violation still holds.
		if s.mode == levi.ModeFault && !violating {
			s.faultLatch = false
			s.mode = levi.ModeIdle
			s.holdTimer = 0
		}
	case levi.CommandStart:
		if s.mode == levi.ModeIdle || s.mode == levi.ModeBrake {
			s.mode = levi.ModeSpinup
			s.holdTimer = 0
		}
	case levi.CommandBrake:
		if s.mode == levi.ModeSpinup || s.mode == levi.ModeHold {
			s.mode = levi.ModeBrake
			s.holdTimer = 0
		}
	}

	switch s.mode {
	case levi.ModeSpinup:
		if math.Abs(in.RPM-p.RPMTarget) <= p.HoldBand {
			s.holdTimer += p.Dt
			// Tolerance absorbs accumulation error so the transition
			// lands on the exact dwell tick.
			if s.holdTimer+1e-9 >= p.HoldDwell {
				s.mode = levi.ModeHold
			}
		} else {
			// No partial credit: any excursion restarts the dwell.
			s.holdTimer = 0
		}
	case levi.ModeHold:
		if math.Abs(in.RPM-p.RPMTarget) > p.HoldBand {
			s.mode = levi.ModeSpinup
			s.holdTimer = 0
		}
	case levi.ModeBrake:
		if math.Abs(in.RPM) < p.RPMMin {
			s.mode = levi.ModeIdle
		}
	}

	return s.output(p, in)
}

func (s *Supervisor) violation(p levi.Params, in Inputs) bool {
	if in.InterlockOpen {
		return true
	}
	if math.Abs(in.RPM) > p.RPMLimit || in.Temperature > p.TLimit {
		return true
	}
	// A non-finite reading can only come from misconfiguration slipping
	// through, but it must still latch rather than propagate.
	return math.IsNaN(in.RPM) || math.IsNaN(in.Temperature)
}

func (s *Supervisor) output(p levi.Params, in Inputs) Output {
	switch s.mode {
	case levi.ModeSpinup:
		return Output{Current: math.Copysign(p.IMax, p.RPMTarget), Bootstrap: true}
	case levi.ModeHold:
		i := p.HoldGain * (p.RPMTarget - in.RPM)
		if i > p.IMax {
			i = p.IMax
		} else if i < -p.IMax {
			i = -p.IMax
		}
		return Output{Current: i}
	case levi.ModeBrake:
		if in.RPM == 0 {
			return Output{}
		}
		return Output{Current: -math.Copysign(p.IMax, in.RPM)}
	default: // IDLE, FAULT
		return Output{}
	}
}
