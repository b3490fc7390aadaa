// Package kalman implements the classical discrete-time Kalman filter
// for linear-Gaussian state-space models.
//
// The filter is driven by two collaborator contracts: a ProcessModel
// describing how the hidden state evolves (state transition, optional
// control, process noise, initial conditions) and a MeasurementModel
// describing how the state is observed (measurement matrix, measurement
// noise). Noise and transition matrices are re-queried from the models
// on every Predict/Correct call, so models may vary them per step.
//
// A Filter mutates its state estimate in place and is not safe for
// concurrent use; callers owning a filter must serialize access.
//
// All linear algebra is delegated to gonum.org/v1/gonum/mat.
package kalman
