package plant

import (
	"math"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

// Rotor owns the continuous physical state (θ, ω, coil temperature) and
// advances it by one fixed step per call. Nothing else mutates it.
type Rotor struct {
	Theta       float64 // [rad], wrapped to [0, 2π)
	Omega       float64 // [rad/s], signed
	Temperature float64 // [K]
}

// NewRotor returns a rotor at rest at ambient temperature.
func NewRotor(p levi.Params) *Rotor {
	return &Rotor{Temperature: p.TAmb}
}

// StepResult reports the torques and powers realized during one step.
type StepResult struct {
	TauDrive   float64
	TauPar     float64
	Losses     levi.LossPowers
	JoulePower float64
	Current    float64 // after saturation
	Duty       float64 // after saturation
}

// Step advances the state by p.Dt under commanded current iCmd and duty.
// Both inputs are saturated here regardless of what the controller asked
// for. Theta is advanced with the pre-update omega and omega with the net
// torque, which behaves better than naive forward Euler on the
// loss-dominated regimes this plant runs in.
func (r *Rotor) Step(p levi.Params, iCmd, duty float64) StepResult {
	i := clamp(iCmd, -p.IMax, p.IMax)
	d := clamp(duty, 0, p.DutyMax)

	tauDrive := p.Kt * i * d
	tauPar, losses := Parasitic(r.Omega, p)
	tauNet := tauDrive - tauPar

	theta := math.Mod(r.Theta+r.Omega*p.Dt, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}

	pJoule := JoulePower(math.Abs(i), d, r.Temperature, p)

	r.Omega += tauNet / p.Inertia * p.Dt
	r.Theta = theta
	r.Temperature += TempDerivative(math.Abs(i), d, r.Temperature, p) * p.Dt

	return StepResult{
		TauDrive:   tauDrive,
		TauPar:     tauPar,
		Losses:     losses,
		JoulePower: pJoule,
		Current:    i,
		Duty:       d,
	}
}

// Reset returns the rotor to rest at ambient temperature.
func (r *Rotor) Reset(p levi.Params) {
	r.Theta = 0
	r.Omega = 0
	r.Temperature = p.TAmb
}

// Finite reports whether every state component is a finite number.
func (r *Rotor) Finite() bool {
	for _, v := range []float64{r.Theta, r.Omega, r.Temperature} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
