package main

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/meridian-data/trackkit/geom"
	"github.com/meridian-data/trackkit/kalman"
)

// SimStep is one step of the simulated scenario.
type SimStep struct {
	Index    int
	Truth    geom.Point2D
	Measured geom.Point2D
	Estimate geom.Point2D
}

// SimResult is the full run plus summary statistics.
type SimResult struct {
	Steps        []SimStep
	RawRMSE      float64
	FilteredRMSE float64
}

// runSimulation drives a constant-velocity target across the plane,
// corrupts its position with Gaussian noise and feeds the measurements
// through a Kalman filter with a matching constant-velocity model.
func runSimulation(cfg Config) (*SimResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	// True motion: start at the origin, 2 m/s east, 1 m/s north.
	truth := geom.Point2D{}
	velocity := geom.Point2D{X: 2, Y: 1}

	filter, err := newConstantVelocityFilter(cfg, truth)
	if err != nil {
		return nil, fmt.Errorf("building filter: %w", err)
	}

	result := &SimResult{Steps: make([]SimStep, 0, cfg.Steps)}
	var rawSq, filteredSq float64

	for i := 0; i < cfg.Steps; i++ {
		truth = truth.Add(velocity.Scale(cfg.Dt))

		measured := geom.Point2D{
			X: truth.X + cfg.MeasureNoise*rng.NormFloat64(),
			Y: truth.Y + cfg.MeasureNoise*rng.NormFloat64(),
		}

		if err := filter.Predict(nil); err != nil {
			return nil, fmt.Errorf("predict step %d: %w", i, err)
		}
		z := mat.NewVecDense(2, []float64{measured.X, measured.Y})
		if err := filter.Correct(z); err != nil {
			return nil, fmt.Errorf("correct step %d: %w", i, err)
		}

		x := filter.State()
		estimate := geom.Point2D{X: x.AtVec(0), Y: x.AtVec(1)}

		rawSq += measured.Distance(truth) * measured.Distance(truth)
		filteredSq += estimate.Distance(truth) * estimate.Distance(truth)

		result.Steps = append(result.Steps, SimStep{
			Index:    i,
			Truth:    truth,
			Measured: measured,
			Estimate: estimate,
		})
	}

	n := float64(cfg.Steps)
	result.RawRMSE = math.Sqrt(rawSq / n)
	result.FilteredRMSE = math.Sqrt(filteredSq / n)
	return result, nil
}

// newConstantVelocityFilter builds a filter over the state
// [x, y, vx, vy] with a fixed time step.
func newConstantVelocityFilter(cfg Config, start geom.Point2D) (*kalman.Filter, error) {
	dt := cfg.Dt
	a := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	q := mat.NewDiagDense(4, []float64{
		cfg.ProcessNoise, cfg.ProcessNoise,
		cfg.ProcessNoise, cfg.ProcessNoise,
	})
	x0 := mat.NewVecDense(4, []float64{start.X, start.Y, 0, 0})
	p0 := mat.NewDiagDense(4, []float64{10, 10, 10, 10})

	process, err := kalman.NewDefaultProcessModel(a, nil, q, x0, p0)
	if err != nil {
		return nil, err
	}

	h := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	sigma2 := cfg.MeasureNoise * cfg.MeasureNoise
	r := mat.NewDiagDense(2, []float64{sigma2, sigma2})

	measurement, err := kalman.NewDefaultMeasurementModel(h, r)
	if err != nil {
		return nil, err
	}

	return kalman.New(process, measurement)
}
