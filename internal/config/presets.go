package config

import "github.com/Tex6298/levimage-sim/internal/levi"

// Presets are the built-in named parameter sets. Each is a complete,
// valid record; unknown names return nil.
var Presets = map[string]func() *Config{
	"demo": func() *Config {
		return &Config{Name: "demo", Duration: 30, Params: levi.DefaultParams()}
	},
	// Rotor in a rough vacuum: gas drag nearly gone, eddy losses dominate.
	"vacuum": func() *Config {
		p := levi.DefaultParams()
		p.Kg = 1e-6
		p.RPMTarget = 6000
		return &Config{Name: "vacuum", Duration: 60, Params: p}
	},
	// Rotor spinning in air: gas and viscous drag both significant.
	"air": func() *Config {
		p := levi.DefaultParams()
		p.Kg = 5e-4
		p.Kv = 1e-6
		p.RPMTarget = 1500
		return &Config{Name: "air", Duration: 30, Params: p}
	},
	// Heavier rotor with a stronger driver and more pulses per rev.
	"heavy": func() *Config {
		p := levi.DefaultParams()
		p.Inertia = 0.1
		p.IMax = 10
		p.Kt = 0.08
		p.PulsesPerRev = 4
		p.DutyMax = 0.05
		return &Config{Name: "heavy", Duration: 120, Params: p}
	},
	// Undersized cooling: drives the coil toward the thermal limit, for
	// exercising the overtemperature interlock and the advisor.
	"hot-coil": func() *Config {
		p := levi.DefaultParams()
		p.HTh = 0.01
		p.CTh = 20
		p.DutyMax = 0.2
		return &Config{Name: "hot-coil", Duration: 60, Params: p}
	},
}

// GetPreset returns a fresh copy of a named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
