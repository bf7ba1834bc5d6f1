// Package control implements the supervisory state machine that arbitrates
// operating modes (IDLE, SPINUP, HOLD, BRAKE, FAULT) from operator commands
// and sensor-derived readings, and enforces the safety interlocks.
//
// The supervisor consumes only derived read-only quantities (rpm, coil
// temperature), never raw plant state, so the physical model stays
// substitutable without touching control logic. It is the only component
// with cross-tick decision memory: the mode, the hold dwell timer, and the
// fault latch.
package control
