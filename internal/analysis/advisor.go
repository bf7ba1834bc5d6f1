// Package analysis provides offline feasibility checks over a parameter
// set: whether the drive can reach and hold the target speed, and whether
// sustained maximum drive stays inside the thermal limit.
package analysis

import (
	"fmt"
	"math"

	"github.com/Tex6298/levimage-sim/internal/levi"
)

// Report summarizes drive and thermal feasibility for a parameter set at
// a given operating point. Times are seconds; Inf means unreachable.
type Report struct {
	// TauMax is the maximum average drive torque Kt*IMax*DutyMax [N·m].
	TauMax float64
	// Alpha0 is the base angular acceleration TauMax/Inertia [rad/s²].
	Alpha0 float64
	// TauLossAtTarget is the parasitic torque at the target speed [N·m].
	TauLossAtTarget float64
	// TimeToTarget estimates the spin-up time ignoring losses.
	TimeToTarget float64
	// TEquilibrium is the steady-state coil temperature at maximum
	// drive under the first-order thermal model [K].
	TEquilibrium float64
	// TimeToTLimit estimates when the coil reaches TLimit at maximum
	// drive; 0 when the limit is never reached.
	TimeToTLimit float64
	// Warnings are human-readable advisory messages.
	Warnings []string
}

// Advise evaluates a parameter set against the current operating point
// (present angular velocity and coil temperature).
func Advise(p levi.Params, omegaNow, tempNow float64) Report {
	r := Report{
		TauMax: p.Kt * p.IMax * p.DutyMax,
	}
	r.Alpha0 = r.TauMax / p.Inertia

	omegaTarget := levi.OmegaFromRPM(p.RPMTarget)
	r.TauLossAtTarget = (p.Ke+p.Kg)*omegaTarget +
		p.Kv*omegaTarget*math.Abs(omegaTarget) +
		math.Copysign(p.CMech, omegaTarget)

	r.TimeToTarget = math.Inf(1)
	if r.Alpha0 > 1e-9 && omegaTarget > omegaNow {
		r.TimeToTarget = (omegaTarget - omegaNow) / r.Alpha0
	}

	rEff := p.R * (1 + p.AlphaR*(tempNow-p.TRef))
	pJoule := p.IMax * p.IMax * rEff * p.DutyMax
	r.TEquilibrium = math.Inf(1)
	if p.HTh > 1e-9 {
		r.TEquilibrium = p.TAmb + pJoule/p.HTh
	}

	if r.TEquilibrium > p.TLimit && p.HTh > 1e-9 && tempNow < p.TLimit {
		// First-order RC response toward TEquilibrium; solve for the
		// crossing time of TLimit.
		tauTh := p.CTh / p.HTh
		num := p.TLimit - r.TEquilibrium
		den := tempNow - r.TEquilibrium
		if den < 0 && num < 0 {
			r.TimeToTLimit = -tauTh * math.Log(num/den)
		}
	}

	r.Warnings = warnings(p, r)
	return r
}

func warnings(p levi.Params, r Report) []string {
	var msgs []string

	if r.TauMax <= 0 {
		msgs = append(msgs, "max drive torque is zero; increase kt, i_max or duty_max")
	} else {
		if r.TauMax < r.TauLossAtTarget {
			msgs = append(msgs, fmt.Sprintf(
				"max torque %.3g N·m is below loss torque %.3g N·m at target; the target rpm cannot be reached or held",
				r.TauMax, r.TauLossAtTarget))
		}
		if math.IsInf(r.TimeToTarget, 1) {
			msgs = append(msgs, "cannot estimate time to target (target at or below current speed, or no acceleration)")
		} else if r.TimeToTarget > 300 {
			msgs = append(msgs, fmt.Sprintf("very slow spin-up: about %.0f s to target ignoring losses", r.TimeToTarget))
		} else if r.TimeToTarget > 60 {
			msgs = append(msgs, fmt.Sprintf("slow spin-up: about %.0f s to target ignoring losses", r.TimeToTarget))
		}
	}

	if r.TEquilibrium > p.TLimit {
		if r.TimeToTLimit > 0 {
			msgs = append(msgs, fmt.Sprintf(
				"thermal limit breach at max drive: equilibrium %.1f K, about %.0f s to t_limit",
				r.TEquilibrium, r.TimeToTLimit))
		} else {
			msgs = append(msgs, fmt.Sprintf("thermal limit breach at max drive: equilibrium %.1f K", r.TEquilibrium))
		}
	}

	if p.RPMTarget > 0.9*p.RPMLimit {
		msgs = append(msgs, "target rpm is within 10% of the overspeed limit")
	}

	return msgs
}
