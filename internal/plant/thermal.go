package plant

import "github.com/Tex6298/levimage-sim/internal/levi"

// Resistance returns the coil resistance at temperature T, using the
// linear tempco around TRef.
func Resistance(temp float64, p levi.Params) float64 {
	return p.R * (1 + p.AlphaR*(temp-p.TRef))
}

// JoulePower returns the duty-averaged electrical heating power for
// current magnitude i at coil temperature temp.
func JoulePower(i, duty, temp float64, p levi.Params) float64 {
	return i * i * Resistance(temp, p) * duty
}

// TempDerivative returns dT/dt for the lumped coil thermal model:
// joule heating minus first-order cooling to ambient, over the thermal
// capacity. CTh > 0 is a configure-time precondition.
func TempDerivative(i, duty, temp float64, p levi.Params) float64 {
	return (JoulePower(i, duty, temp, p) - p.HTh*(temp-p.TAmb)) / p.CTh
}
