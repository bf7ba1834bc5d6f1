package control

import (
	"math"
	"testing"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

func testParams() levi.Params {
	p := levi.DefaultParams()
	p.RPMTarget = 3000
	p.HoldBand = 50
	p.HoldDwell = 2.0
	p.RPMMin = 10
	p.Dt = 0.01
	return p
}

func tickN(s *Supervisor, p levi.Params, in Inputs, n int) Output {
	var out Output
	for i := 0; i < n; i++ {
		out = s.Tick(p, in)
	}
	return out
}

func TestInitialMode(t *testing.T) {
	s := NewSupervisor()
	if s.Mode() != levi.ModeIdle {
		t.Errorf("initial mode = %s, want IDLE", s.Mode())
	}
	if s.FaultLatched() {
		t.Error("latch must start clear")
	}
}

func TestStartAndBrakeSequencing(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	// Brake while IDLE is a no-op.
	s.Tick(p, Inputs{Command: levi.CommandBrake})
	if s.Mode() != levi.ModeIdle {
		t.Errorf("brake from IDLE: mode = %s, want IDLE", s.Mode())
	}

	out := s.Tick(p, Inputs{Command: levi.CommandStart})
	if s.Mode() != levi.ModeSpinup {
		t.Errorf("start from IDLE: mode = %s, want SPINUP", s.Mode())
	}
	if out.Current != p.IMax {
		t.Errorf("spinup current = %g, want %g", out.Current, p.IMax)
	}
	if !out.Bootstrap {
		t.Error("spinup must enable the bootstrap rule")
	}

	out = s.Tick(p, Inputs{Command: levi.CommandBrake, RPM: 1000})
	if s.Mode() != levi.ModeBrake {
		t.Errorf("brake from SPINUP: mode = %s, want BRAKE", s.Mode())
	}
	if out.Current != -p.IMax {
		t.Errorf("brake current = %g, want %g", out.Current, -p.IMax)
	}

	// Start from BRAKE re-enters SPINUP.
	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: 1000})
	if s.Mode() != levi.ModeSpinup {
		t.Errorf("start from BRAKE: mode = %s, want SPINUP", s.Mode())
	}
}

func TestInterlockPrecedence(t *testing.T) {
	p := testParams()

	commands := []levi.Command{
		levi.CommandNone, levi.CommandStart, levi.CommandBrake, levi.CommandResetFault,
	}
	setups := []struct {
		name string
		in   Inputs
	}{
		{"overspeed", Inputs{RPM: p.RPMLimit + 1}},
		{"reverse overspeed", Inputs{RPM: -(p.RPMLimit + 1)}},
		{"overtemp", Inputs{Temperature: p.TLimit + 1}},
		{"external chain open", Inputs{InterlockOpen: true}},
	}

	for _, setup := range setups {
		for _, cmd := range commands {
			t.Run(setup.name+"/"+cmd.String(), func(t *testing.T) {
				s := NewSupervisor()
				s.Tick(p, Inputs{Command: levi.CommandStart})

				in := setup.in
				in.Command = cmd
				out := s.Tick(p, in)

				if s.Mode() != levi.ModeFault {
					t.Errorf("mode = %s, want FAULT", s.Mode())
				}
				if !s.FaultLatched() {
					t.Error("latch not set")
				}
				if out.Current != 0 {
					t.Errorf("fault current = %g, want 0", out.Current)
				}
			})
		}
	}
}

func TestFaultResetRejectedWhileViolating(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{RPM: p.RPMLimit + 100})
	if s.Mode() != levi.ModeFault {
		t.Fatalf("mode = %s, want FAULT", s.Mode())
	}

	// Still overspeed: reset is rejected, not queued.
	s.Tick(p, Inputs{Command: levi.CommandResetFault, RPM: p.RPMLimit + 100})
	if s.Mode() != levi.ModeFault || !s.FaultLatched() {
		t.Error("reset must be rejected while the violation holds")
	}

	// Back under the limit: reset accepted.
	s.Tick(p, Inputs{Command: levi.CommandResetFault, RPM: 100})
	if s.Mode() != levi.ModeIdle {
		t.Errorf("mode = %s, want IDLE after accepted reset", s.Mode())
	}
	if s.FaultLatched() {
		t.Error("latch should be clear after accepted reset")
	}
}

func TestStopDoesNotClearFault(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{Temperature: p.TLimit + 5})
	s.Tick(p, Inputs{Command: levi.CommandStop, Temperature: p.TLimit + 5})

	if s.Mode() != levi.ModeFault {
		t.Errorf("stop cleared FAULT: mode = %s", s.Mode())
	}
	if !s.FaultLatched() {
		t.Error("stop cleared the latch")
	}

	// ResetFault while not in FAULT is a silent no-op.
	s2 := NewSupervisor()
	s2.Tick(p, Inputs{Command: levi.CommandResetFault})
	if s2.Mode() != levi.ModeIdle {
		t.Errorf("reset from IDLE: mode = %s, want IDLE", s2.Mode())
	}
}

func TestStopIdempotent(t *testing.T) {
	p := testParams()
	s := NewSupervisor()
	s.Tick(p, Inputs{Command: levi.CommandStart})

	out1 := s.Tick(p, Inputs{Command: levi.CommandStop, RPM: 500})
	out2 := s.Tick(p, Inputs{Command: levi.CommandStop, RPM: 500})

	if s.Mode() != levi.ModeIdle {
		t.Errorf("mode = %s, want IDLE", s.Mode())
	}
	if out1.Current != 0 || out2.Current != 0 {
		t.Error("stop must zero commanded current both times")
	}
	if s.HoldTimer() != 0 {
		t.Error("stop must clear the hold timer")
	}
}

func TestHoldAcquisitionDeterminism(t *testing.T) {
	p := testParams() // dwell 2 s, dt 0.01 s: exactly 200 in-band ticks
	s := NewSupervisor()

	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: p.RPMTarget})
	if s.Mode() != levi.ModeSpinup {
		t.Fatalf("mode = %s, want SPINUP", s.Mode())
	}

	inBand := Inputs{RPM: p.RPMTarget + p.HoldBand} // band edge counts
	tickN(s, p, inBand, 198)                        // 199 in-band ticks total
	if s.Mode() != levi.ModeSpinup {
		t.Fatalf("transitioned early at tick 199: mode = %s", s.Mode())
	}

	s.Tick(p, inBand) // tick 200: dwell satisfied
	if s.Mode() != levi.ModeHold {
		t.Errorf("mode = %s, want HOLD at exactly the dwell tick", s.Mode())
	}
}

func TestHoldDwellResetOnExcursion(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: p.RPMTarget})
	tickN(s, p, Inputs{RPM: p.RPMTarget}, 150)

	// Excursion: no partial credit.
	s.Tick(p, Inputs{RPM: p.RPMTarget + p.HoldBand + 1})
	if s.HoldTimer() != 0 {
		t.Errorf("hold timer = %g after excursion, want 0", s.HoldTimer())
	}

	tickN(s, p, Inputs{RPM: p.RPMTarget}, 199)
	if s.Mode() != levi.ModeSpinup {
		t.Errorf("mode = %s, want SPINUP before full dwell re-elapses", s.Mode())
	}
	s.Tick(p, Inputs{RPM: p.RPMTarget})
	if s.Mode() != levi.ModeHold {
		t.Errorf("mode = %s, want HOLD", s.Mode())
	}
}

func TestHoldReacquire(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: p.RPMTarget})
	tickN(s, p, Inputs{RPM: p.RPMTarget}, 200)
	if s.Mode() != levi.ModeHold {
		t.Fatalf("mode = %s, want HOLD", s.Mode())
	}

	s.Tick(p, Inputs{RPM: p.RPMTarget - p.HoldBand - 20})
	if s.Mode() != levi.ModeSpinup {
		t.Errorf("mode = %s, want SPINUP after leaving the band", s.Mode())
	}
}

func TestHoldMaintainingCurrent(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: p.RPMTarget})
	tickN(s, p, Inputs{RPM: p.RPMTarget}, 200)

	// Below target inside the band: small positive correction.
	out := s.Tick(p, Inputs{RPM: p.RPMTarget - 20})
	want := p.HoldGain * 20
	if math.Abs(out.Current-want) > 1e-12 {
		t.Errorf("hold current = %g, want %g", out.Current, want)
	}
	if out.Bootstrap {
		t.Error("hold must not use the bootstrap rule")
	}

	// Maintaining current is bounded by IMax.
	p2 := p
	p2.HoldGain = 100
	out = s.Tick(p2, Inputs{RPM: p.RPMTarget - 20})
	if out.Current != p.IMax {
		t.Errorf("hold current = %g, want clamp to %g", out.Current, p.IMax)
	}
}

func TestBrakeToIdle(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{Command: levi.CommandStart, RPM: 0})
	s.Tick(p, Inputs{Command: levi.CommandBrake, RPM: 3000})
	if s.Mode() != levi.ModeBrake {
		t.Fatalf("mode = %s, want BRAKE", s.Mode())
	}

	s.Tick(p, Inputs{RPM: p.RPMMin}) // not below yet
	if s.Mode() != levi.ModeBrake {
		t.Errorf("mode = %s, want BRAKE at rpm_min", s.Mode())
	}

	out := s.Tick(p, Inputs{RPM: p.RPMMin - 1})
	if s.Mode() != levi.ModeIdle {
		t.Errorf("mode = %s, want IDLE below rpm_min", s.Mode())
	}
	if out.Current != 0 {
		t.Errorf("idle current = %g, want 0", out.Current)
	}
}

func TestBrakeOpposesSpin(t *testing.T) {
	p := testParams()

	for _, rpm := range []float64{3000, -3000} {
		s := NewSupervisor()
		s.Tick(p, Inputs{Command: levi.CommandStart})
		out := s.Tick(p, Inputs{Command: levi.CommandBrake, RPM: rpm})

		if rpm > 0 && out.Current != -p.IMax {
			t.Errorf("brake current = %g for rpm %g, want %g", out.Current, rpm, -p.IMax)
		}
		if rpm < 0 && out.Current != p.IMax {
			t.Errorf("brake current = %g for rpm %g, want %g", out.Current, rpm, p.IMax)
		}
	}
}

func TestReset(t *testing.T) {
	p := testParams()
	s := NewSupervisor()

	s.Tick(p, Inputs{RPM: p.RPMLimit * 2})
	s.Reset()

	if s.Mode() != levi.ModeIdle || s.FaultLatched() || s.HoldTimer() != 0 {
		t.Errorf("reset left mode=%s latch=%v timer=%g", s.Mode(), s.FaultLatched(), s.HoldTimer())
	}
}
