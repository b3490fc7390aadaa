package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ProcessModel describes the evolution of the hidden state of a
// discrete-time linear stochastic process:
//
//	x(k) = A·x(k-1) + B·u(k-1) + w(k-1)
//
// where w has covariance Q. StateTransition and ProcessNoise are
// re-queried by the filter on every Predict call, so implementations
// may vary them per step (e.g. dt-dependent transitions or time-varying
// noise).
type ProcessModel interface {
	// StateTransition returns the n×n state transition matrix A.
	StateTransition() mat.Matrix
	// Control returns the n×k control matrix B, or nil when the process
	// has no control input.
	Control() mat.Matrix
	// ProcessNoise returns the n×n process noise covariance Q.
	ProcessNoise() mat.Matrix
	// InitialState returns the initial state estimate x0, or nil to
	// start from the zero vector.
	InitialState() mat.Vector
	// InitialCovariance returns the initial error covariance P0, or nil
	// to fall back to the process noise covariance. The fallback is a
	// documented substitute, not a statistically rigorous default.
	InitialCovariance() mat.Matrix
}

// MeasurementModel describes how the hidden state is observed:
//
//	z(k) = H·x(k) + v(k)
//
// where v has covariance R. Both matrices are re-queried on every
// Correct call.
type MeasurementModel interface {
	// Measurement returns the m×n measurement matrix H.
	Measurement() mat.Matrix
	// MeasurementNoise returns the m×m measurement noise covariance R.
	MeasurementNoise() mat.Matrix
}

// DefaultProcessModel is a ProcessModel with constant matrices.
type DefaultProcessModel struct {
	a  mat.Matrix
	b  mat.Matrix
	q  mat.Matrix
	x0 mat.Vector
	p0 mat.Matrix
}

// NewDefaultProcessModel builds a constant-matrix process model. The
// state transition a and process noise q are required; the control
// matrix b, initial state x0 and initial covariance p0 may be nil.
func NewDefaultProcessModel(a, b, q mat.Matrix, x0 mat.Vector, p0 mat.Matrix) (*DefaultProcessModel, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: state transition", ErrMissingMatrix)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: process noise", ErrMissingMatrix)
	}
	return &DefaultProcessModel{a: a, b: b, q: q, x0: x0, p0: p0}, nil
}

func (m *DefaultProcessModel) StateTransition() mat.Matrix { return m.a }

func (m *DefaultProcessModel) Control() mat.Matrix { return m.b }

func (m *DefaultProcessModel) ProcessNoise() mat.Matrix { return m.q }

func (m *DefaultProcessModel) InitialState() mat.Vector { return m.x0 }

func (m *DefaultProcessModel) InitialCovariance() mat.Matrix { return m.p0 }

// DefaultMeasurementModel is a MeasurementModel with constant matrices.
type DefaultMeasurementModel struct {
	h mat.Matrix
	r mat.Matrix
}

// NewDefaultMeasurementModel builds a constant-matrix measurement
// model. Both matrices are required.
func NewDefaultMeasurementModel(h, r mat.Matrix) (*DefaultMeasurementModel, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: measurement matrix", ErrMissingMatrix)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: measurement noise", ErrMissingMatrix)
	}
	return &DefaultMeasurementModel{h: h, r: r}, nil
}

func (m *DefaultMeasurementModel) Measurement() mat.Matrix { return m.h }

func (m *DefaultMeasurementModel) MeasurementNoise() mat.Matrix { return m.r }
