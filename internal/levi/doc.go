// Package levi defines the core domain types for the levitated-magnet
// rotor simulator:
//
//   - [Params]: immutable-per-run physical, electrical, thermal and
//     safety constants
//   - [Mode]: supervisory operating mode (IDLE/SPINUP/HOLD/BRAKE/FAULT)
//   - [Command]: operator intent applied on the next tick
//   - [Telemetry]: one immutable sample emitted per tick
//   - [Metric], [Observer]: hooks for consumers of the tick stream
//
// # Example
//
//	p := levi.DefaultParams()
//	drv, _ := sim.New(p)
//	drv.SubmitCommand(levi.CommandStart)
//	sample := drv.Tick()
//
// # Thread Safety
//
// None of the types here are safe for concurrent mutation. A Telemetry
// value is a snapshot handed off by value and may cross goroutines.
package levi
