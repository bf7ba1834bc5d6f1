package levi

import (
	"fmt"
	"math"
)

// Params is the full parameter set for one run. It is treated as immutable
// while a run is in progress; Configure replaces it atomically between
// ticks. Temperatures are in kelvin, angles in radians, speeds in rad/s
// unless a field name says rpm.
type Params struct {
	// Rotor
	Inertia float64 `yaml:"inertia"` // [kg·m²]

	// Coil and driver
	Kt      float64 `yaml:"kt"`       // torque constant [N·m/A]
	R       float64 `yaml:"r"`        // coil resistance at TRef [Ω]
	AlphaR  float64 `yaml:"alpha_r"`  // resistance tempco [1/K]
	TRef    float64 `yaml:"t_ref"`    // reference temperature [K]
	IMax    float64 `yaml:"i_max"`    // driver current limit [A]
	DutyMax float64 `yaml:"duty_max"` // max pulse duty per revolution (0..1)

	// Losses
	Ke    float64 `yaml:"ke"`     // eddy drag: tau = Ke*ω [N·m·s]
	Kg    float64 `yaml:"kg"`     // gas drag: tau = Kg*ω [N·m·s]
	Kv    float64 `yaml:"kv"`     // viscous-like: tau = Kv*ω|ω| [N·m·s²]
	CMech float64 `yaml:"c_mech"` // speed-independent torque [N·m]

	// Thermal
	CTh  float64 `yaml:"c_th"`  // coil thermal capacity [J/K]
	HTh  float64 `yaml:"h_th"`  // conductance to ambient [W/K]
	TAmb float64 `yaml:"t_amb"` // ambient temperature [K]

	// Safety
	TLimit   float64 `yaml:"t_limit"`   // overtemperature trip [K]
	RPMLimit float64 `yaml:"rpm_limit"` // overspeed trip [rpm]

	// Control
	RPMTarget float64 `yaml:"rpm_target"` // setpoint [rpm]
	HoldBand  float64 `yaml:"hold_band"`  // tolerance around target [rpm]
	HoldDwell float64 `yaml:"hold_dwell"` // continuous time in band before HOLD [s]
	HoldGain  float64 `yaml:"hold_gain"`  // maintaining current per rpm of error [A/rpm]
	RPMMin    float64 `yaml:"rpm_min"`    // |rpm| below which BRAKE exits to IDLE

	// Pulsed drive
	PulsesPerRev int     `yaml:"pulses_per_rev"`
	WindowFrac   float64 `yaml:"window_frac"` // window half-width as fraction of a sector
	MinDuty      float64 `yaml:"min_duty"`    // bootstrap duty applied from rest
	OmegaEps     float64 `yaml:"omega_eps"`   // |ω| below this counts as at rest [rad/s]

	// Integration
	Dt float64 `yaml:"dt"` // fixed timestep [s]
}

// DefaultParams returns the small demonstration rotor.
func DefaultParams() Params {
	return Params{
		Inertia:      0.02,
		Kt:           0.05,
		R:            2.0,
		AlphaR:       0.0039,
		TRef:         293.15,
		IMax:         5.0,
		DutyMax:      0.02,
		Ke:           1e-4,
		Kg:           5e-5,
		Kv:           0,
		CMech:        0,
		CTh:          200.0,
		HTh:          0.8,
		TAmb:         293.15,
		TLimit:       363.15,
		RPMLimit:     12000,
		RPMTarget:    3000,
		HoldBand:     50,
		HoldDwell:    2.0,
		HoldGain:     0.02,
		RPMMin:       100,
		PulsesPerRev: 1,
		WindowFrac:   0.05,
		MinDuty:      0.02,
		OmegaEps:     1e-3,
		Dt:           0.001,
	}
}

// Validate checks the structural preconditions. Anything that could drive
// the integrator non-finite is rejected here so ticks never need to check.
func (p Params) Validate() error {
	if p.Inertia <= 0 {
		return fmt.Errorf("%w: inertia must be positive, got %g", ErrInvalidConfig, p.Inertia)
	}
	if p.CTh <= 0 {
		return fmt.Errorf("%w: c_th must be positive, got %g", ErrInvalidConfig, p.CTh)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, p.Dt)
	}
	if p.DutyMax < 0 || p.DutyMax > 1 {
		return fmt.Errorf("%w: duty_max must be in [0,1], got %g", ErrInvalidConfig, p.DutyMax)
	}
	if p.PulsesPerRev < 1 {
		return fmt.Errorf("%w: pulses_per_rev must be >= 1, got %d", ErrInvalidConfig, p.PulsesPerRev)
	}
	if p.IMax < 0 {
		return fmt.Errorf("%w: i_max must be non-negative, got %g", ErrInvalidConfig, p.IMax)
	}
	if p.Ke < 0 || p.Kg < 0 || p.Kv < 0 || p.CMech < 0 {
		return fmt.Errorf("%w: loss coefficients must be non-negative", ErrInvalidConfig)
	}
	if p.HTh < 0 {
		return fmt.Errorf("%w: h_th must be non-negative, got %g", ErrInvalidConfig, p.HTh)
	}
	if p.RPMLimit <= 0 {
		return fmt.Errorf("%w: rpm_limit must be positive, got %g", ErrInvalidConfig, p.RPMLimit)
	}
	if p.HoldBand < 0 {
		return fmt.Errorf("%w: hold_band must be non-negative, got %g", ErrInvalidConfig, p.HoldBand)
	}
	if p.HoldDwell < 0 {
		return fmt.Errorf("%w: hold_dwell must be non-negative, got %g", ErrInvalidConfig, p.HoldDwell)
	}
	if p.WindowFrac <= 0 || p.WindowFrac > 0.5 {
		return fmt.Errorf("%w: window_frac must be in (0,0.5], got %g", ErrInvalidConfig, p.WindowFrac)
	}
	if p.MinDuty < 0 || p.MinDuty > 1 {
		return fmt.Errorf("%w: min_duty must be in [0,1], got %g", ErrInvalidConfig, p.MinDuty)
	}
	if p.OmegaEps <= 0 {
		return fmt.Errorf("%w: omega_eps must be positive, got %g", ErrInvalidConfig, p.OmegaEps)
	}

	fields := []struct {
		name string
		v    float64
	}{
		{"inertia", p.Inertia}, {"kt", p.Kt}, {"r", p.R}, {"alpha_r", p.AlphaR},
		{"t_ref", p.TRef}, {"c_th", p.CTh}, {"h_th", p.HTh}, {"t_amb", p.TAmb},
		{"t_limit", p.TLimit}, {"rpm_limit", p.RPMLimit}, {"rpm_target", p.RPMTarget},
		{"dt", p.Dt},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, f.name)
		}
	}

	return nil
}
