package plant

import (
	"math"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

// Parasitic returns the total parasitic torque opposing rotation and the
// power dissipated by each loss term.
//
//	tau = (Ke+Kg)*ω + Kv*ω|ω| + sign(ω)*CMech
//
// sign(0) = 0, so a rotor at exact rest sees no mechanical drag torque and
// startup is not blocked by a discontinuity at ω = 0.
func Parasitic(omega float64, p levi.Params) (float64, levi.LossPowers) {
	tau := (p.Ke+p.Kg)*omega + p.Kv*omega*math.Abs(omega) + sign(omega)*p.CMech

	pw := levi.LossPowers{
		Eddy:       p.Ke * omega * omega,
		Gas:        p.Kg * omega * omega,
		Viscous:    p.Kv * math.Abs(omega*omega*omega),
		Mechanical: p.CMech * math.Abs(omega),
	}
	return tau, pw
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
