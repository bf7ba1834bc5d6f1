package plant

import (
	"math"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

// BaseDuty is the duty fraction a fully open phase window provides:
// each sector of 2π/N carries one window of width 2*WindowFrac sectors.
func BaseDuty(p levi.Params) float64 {
	return clampDuty(2*p.WindowFrac, p)
}

// Duty returns the instantaneous duty fraction for this tick.
//
// Normal path: requested duty when theta falls inside the phase window of
// its sector, 0 otherwise. The window is centered at mid-sector; direction
// is carried by the sign of the commanded current, not by the window.
//
// Bootstrap path: with bootstrap enabled (SPINUP) and |ω| below OmegaEps,
// phase gating is skipped and at least MinDuty is applied, since a
// stationary rotor would otherwise never cross a window. The moment
// |ω| reaches OmegaEps, gated behavior resumes unconditionally.
func Duty(theta, omega, requested float64, bootstrap bool, p levi.Params) float64 {
	if bootstrap && math.Abs(omega) < p.OmegaEps {
		return clampDuty(math.Max(requested, p.MinDuty), p)
	}

	sector := 2 * math.Pi / float64(p.PulsesPerRev)
	half := p.WindowFrac * sector
	pos := math.Mod(theta, sector)
	if pos < 0 {
		pos += sector
	}
	if math.Abs(pos-sector/2) >= half {
		return 0
	}
	return clampDuty(requested, p)
}

func clampDuty(d float64, p levi.Params) float64 {
	if d < 0 {
		return 0
	}
	if d > p.DutyMax {
		return p.DutyMax
	}
	return d
}
