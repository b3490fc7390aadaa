package tracking

import "gonum.org/v1/gonum/mat"

// constantVelocityModel is a kalman.ProcessModel over the state
// [x, y, vx, vy]. The time step is set by the tracker before every
// predict, so the state transition returned here varies per call.
type constantVelocityModel struct {
	dt float64

	processNoisePos float64
	processNoiseVel float64

	x0 mat.Vector
	p0 mat.Matrix
}

func (m *constantVelocityModel) StateTransition() mat.Matrix {
	return mat.NewDense(4, 4, []float64{
		1, 0, m.dt, 0,
		0, 1, 0, m.dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func (m *constantVelocityModel) Control() mat.Matrix { return nil }

func (m *constantVelocityModel) ProcessNoise() mat.Matrix {
	return mat.NewDiagDense(4, []float64{
		m.processNoisePos,
		m.processNoisePos,
		m.processNoiseVel,
		m.processNoiseVel,
	})
}

func (m *constantVelocityModel) InitialState() mat.Vector { return m.x0 }

func (m *constantVelocityModel) InitialCovariance() mat.Matrix { return m.p0 }

// positionModel is a kalman.MeasurementModel observing only the
// position components of the constant-velocity state.
type positionModel struct {
	measurementNoise float64
}

func (m *positionModel) Measurement() mat.Matrix {
	return mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
}

func (m *positionModel) MeasurementNoise() mat.Matrix {
	return mat.NewDiagDense(2, []float64{m.measurementNoise, m.measurementNoise})
}
