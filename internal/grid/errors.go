package grid

import "errors"

var (
	// ErrInvalidConfiguration is returned eagerly by New and by Generate for
	// options that can never produce a grid.
	ErrInvalidConfiguration = errors.New("grid: invalid configuration")

	// ErrNumericIntegration aborts Generate when a quadrature over an
	// interval does not produce a finite value.
	ErrNumericIntegration = errors.New("grid: numeric integration failed")
)
