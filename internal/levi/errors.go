package levi

import "errors"

// Domain errors.
var (
	// ErrInvalidConfig indicates a structurally invalid parameter set.
	// It is returned only at configuration time, never mid-run.
	ErrInvalidConfig = errors.New("levi: invalid configuration")

	// ErrNotConfigured indicates an operation on a driver with no
	// parameter set installed.
	ErrNotConfigured = errors.New("levi: simulator not configured")
)
