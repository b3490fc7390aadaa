package kalman

import "errors"

var (
	// ErrDimensionMismatch is returned when operand shapes are
	// incompatible: model matrices that do not agree on the state or
	// measurement dimension, control vectors of the wrong length, or
	// measurements of the wrong length. The wrapped message carries the
	// dimensions involved.
	ErrDimensionMismatch = errors.New("kalman: dimension mismatch")

	// ErrSingularMatrix is returned by Correct when the innovation
	// covariance cannot be inverted within numerical tolerance. The
	// correction is abandoned; the caller may skip it and retry on the
	// next measurement.
	ErrSingularMatrix = errors.New("kalman: singular innovation covariance")

	// ErrMissingMatrix is returned when a model fails to supply a
	// required matrix (state transition, process noise, measurement
	// matrix or measurement noise).
	ErrMissingMatrix = errors.New("kalman: model did not supply a required matrix")
)
