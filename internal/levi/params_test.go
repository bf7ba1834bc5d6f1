package levi

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero inertia", func(p *Params) { p.Inertia = 0 }},
		{"zero c_th", func(p *Params) { p.CTh = 0 }},
		{"negative c_th", func(p *Params) { p.CTh = -10 }},
		{"zero dt", func(p *Params) { p.Dt = 0 }},
		{"negative duty_max", func(p *Params) { p.DutyMax = -0.1 }},
		{"duty_max above one", func(p *Params) { p.DutyMax = 1.1 }},
		{"zero pulses_per_rev", func(p *Params) { p.PulsesPerRev = 0 }},
		{"negative i_max", func(p *Params) { p.IMax = -1 }},
		{"negative loss coeff", func(p *Params) { p.Ke = -1e-4 }},
		{"zero rpm_limit", func(p *Params) { p.RPMLimit = 0 }},
		{"window_frac above half", func(p *Params) { p.WindowFrac = 0.6 }},
		{"zero omega_eps", func(p *Params) { p.OmegaEps = 0 }},
		{"nan kt", func(p *Params) { p.Kt = math.NaN() }},
		{"inf t_limit", func(p *Params) { p.TLimit = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestRPMConversion(t *testing.T) {
	if got := RPM(2 * math.Pi); math.Abs(got-60) > 1e-9 {
		t.Errorf("RPM(2π) = %g, want 60", got)
	}
	if got := OmegaFromRPM(60); math.Abs(got-2*math.Pi) > 1e-9 {
		t.Errorf("OmegaFromRPM(60) = %g, want 2π", got)
	}
	if got := OmegaFromRPM(RPM(123.4)); math.Abs(got-123.4) > 1e-9 {
		t.Errorf("round trip = %g, want 123.4", got)
	}
}

func TestModeAndCommandStrings(t *testing.T) {
	modes := map[Mode]string{
		ModeIdle: "IDLE", ModeSpinup: "SPINUP", ModeHold: "HOLD",
		ModeBrake: "BRAKE", ModeFault: "FAULT", Mode(99): "UNKNOWN",
	}
	for m, want := range modes {
		if m.String() != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, m.String(), want)
		}
	}

	if CommandResetFault.String() != "reset-fault" {
		t.Errorf("unexpected command string %q", CommandResetFault.String())
	}
}
