package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Filter maintains a running state estimate x and error covariance P
// for a linear-Gaussian process, using the classical predict/correct
// recursion. Predict and Correct may be called in any order and any
// number of times.
type Filter struct {
	process     ProcessModel
	measurement MeasurementModel

	n int // state dimension (rows of A)
	m int // measurement dimension (rows of H)

	x *mat.VecDense // current state estimate (n)
	p *mat.Dense    // current error covariance (n×n)
	k *mat.Dense    // gain from the most recent correction, nil before
}

// New builds a filter from the two models and validates that all model
// matrices agree on the state dimension n and measurement dimension m.
//
// A missing initial state starts the filter at the zero vector. A
// missing initial covariance falls back to the process noise matrix, a
// documented substitute rather than a statistically rigorous default.
func New(process ProcessModel, measurement MeasurementModel) (*Filter, error) {
	if process == nil || measurement == nil {
		return nil, fmt.Errorf("%w: nil model", ErrMissingMatrix)
	}

	a := process.StateTransition()
	if a == nil {
		return nil, fmt.Errorf("%w: state transition", ErrMissingMatrix)
	}
	ar, ac := a.Dims()
	if ar != ac {
		return nil, fmt.Errorf("%w: state transition is %dx%d, want square", ErrDimensionMismatch, ar, ac)
	}
	n := ar

	q := process.ProcessNoise()
	if q == nil {
		return nil, fmt.Errorf("%w: process noise", ErrMissingMatrix)
	}
	if qr, qc := q.Dims(); qr != n || qc != n {
		return nil, fmt.Errorf("%w: process noise is %dx%d, want %dx%d", ErrDimensionMismatch, qr, qc, n, n)
	}

	if b := process.Control(); b != nil {
		if br, _ := b.Dims(); br != n {
			return nil, fmt.Errorf("%w: control matrix has %d rows, want %d", ErrDimensionMismatch, br, n)
		}
	}

	h := measurement.Measurement()
	if h == nil {
		return nil, fmt.Errorf("%w: measurement matrix", ErrMissingMatrix)
	}
	hr, hc := h.Dims()
	if hc != n {
		return nil, fmt.Errorf("%w: measurement matrix has %d columns, want %d", ErrDimensionMismatch, hc, n)
	}
	m := hr

	r := measurement.MeasurementNoise()
	if r == nil {
		return nil, fmt.Errorf("%w: measurement noise", ErrMissingMatrix)
	}
	if rr, rc := r.Dims(); rr != m || rc != m {
		return nil, fmt.Errorf("%w: measurement noise is %dx%d, want %dx%d", ErrDimensionMismatch, rr, rc, m, m)
	}

	x := mat.NewVecDense(n, nil)
	if x0 := process.InitialState(); x0 != nil {
		if x0.Len() != n {
			return nil, fmt.Errorf("%w: initial state has length %d, want %d", ErrDimensionMismatch, x0.Len(), n)
		}
		x.CloneFromVec(x0)
	}

	p := mat.NewDense(n, n, nil)
	if p0 := process.InitialCovariance(); p0 != nil {
		pr, pc := p0.Dims()
		if pr != n || pc != n {
			return nil, fmt.Errorf("%w: initial covariance is %dx%d, want %dx%d", ErrDimensionMismatch, pr, pc, n, n)
		}
		p.Copy(p0)
	} else {
		p.Copy(q)
	}

	return &Filter{
		process:     process,
		measurement: measurement,
		n:           n,
		m:           m,
		x:           x,
		p:           p,
	}, nil
}

// StateDimension returns n, the length of the state vector.
func (f *Filter) StateDimension() int { return f.n }

// MeasurementDimension returns m, the length of a measurement.
func (f *Filter) MeasurementDimension() int { return f.m }

// State returns a copy of the current state estimate.
func (f *Filter) State() *mat.VecDense {
	out := mat.NewVecDense(f.n, nil)
	out.CloneFromVec(f.x)
	return out
}

// Covariance returns a copy of the current error covariance.
func (f *Filter) Covariance() *mat.Dense {
	out := mat.NewDense(f.n, f.n, nil)
	out.Copy(f.p)
	return out
}

// Gain returns a copy of the Kalman gain computed by the most recent
// Correct call, or nil if no correction has been applied yet.
func (f *Filter) Gain() *mat.Dense {
	if f.k == nil {
		return nil
	}
	out := mat.NewDense(f.n, f.m, nil)
	out.Copy(f.k)
	return out
}

// Predict advances the state estimate one step:
//
//	x ← A·x + B·u
//	P ← A·P·Aᵀ + Q
//
// A nil control vector omits the control term entirely; this is
// equivalent to a zero control input. The state transition and process
// noise are re-fetched from the process model, so a time-varying model
// takes effect here.
func (f *Filter) Predict(u mat.Vector) error {
	a := f.process.StateTransition()
	if a == nil {
		return fmt.Errorf("%w: state transition", ErrMissingMatrix)
	}
	if ar, ac := a.Dims(); ar != f.n || ac != f.n {
		return fmt.Errorf("%w: state transition is %dx%d, want %dx%d", ErrDimensionMismatch, ar, ac, f.n, f.n)
	}

	var x mat.VecDense
	x.MulVec(a, f.x)

	if u != nil {
		b := f.process.Control()
		if b == nil {
			return fmt.Errorf("%w: control input of length %d but model has no control matrix", ErrDimensionMismatch, u.Len())
		}
		br, bc := b.Dims()
		if br != f.n || bc != u.Len() {
			return fmt.Errorf("%w: control matrix is %dx%d, control input has length %d", ErrDimensionMismatch, br, bc, u.Len())
		}
		var bu mat.VecDense
		bu.MulVec(b, u)
		x.AddVec(&x, &bu)
	}

	q := f.process.ProcessNoise()
	if q == nil {
		return fmt.Errorf("%w: process noise", ErrMissingMatrix)
	}
	if qr, qc := q.Dims(); qr != f.n || qc != f.n {
		return fmt.Errorf("%w: process noise is %dx%d, want %dx%d", ErrDimensionMismatch, qr, qc, f.n, f.n)
	}

	var ap, apat mat.Dense
	ap.Mul(a, f.p)
	apat.Mul(&ap, a.T())
	apat.Add(&apat, q)

	f.x.CloneFromVec(&x)
	f.p.Copy(&apat)
	return nil
}

// Correct folds a measurement z into the state estimate:
//
//	S = H·P·Hᵀ + R
//	K = P·Hᵀ·S⁻¹
//	x ← x + K·(z − H·x)
//	P ← (I − K·H)·P
//
// The measurement matrix and noise are re-fetched from the measurement
// model. Correct fails with ErrSingularMatrix when S is not invertible
// within numerical tolerance; the filter state is left untouched and
// the caller may retry with the next measurement.
func (f *Filter) Correct(z mat.Vector) error {
	if z == nil || z.Len() != f.m {
		got := 0
		if z != nil {
			got = z.Len()
		}
		return fmt.Errorf("%w: measurement has length %d, want %d", ErrDimensionMismatch, got, f.m)
	}

	h := f.measurement.Measurement()
	if h == nil {
		return fmt.Errorf("%w: measurement matrix", ErrMissingMatrix)
	}
	if hr, hc := h.Dims(); hr != f.m || hc != f.n {
		return fmt.Errorf("%w: measurement matrix is %dx%d, want %dx%d", ErrDimensionMismatch, hr, hc, f.m, f.n)
	}

	r := f.measurement.MeasurementNoise()
	if r == nil {
		return fmt.Errorf("%w: measurement noise", ErrMissingMatrix)
	}
	if rr, rc := r.Dims(); rr != f.m || rc != f.m {
		return fmt.Errorf("%w: measurement noise is %dx%d, want %dx%d", ErrDimensionMismatch, rr, rc, f.m, f.m)
	}

	// S = H·P·Hᵀ + R
	var pht mat.Dense
	pht.Mul(f.p, h.T())
	var s mat.Dense
	s.Mul(h, &pht)
	s.Add(&s, r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularMatrix, err)
	}

	// K = P·Hᵀ·S⁻¹
	var k mat.Dense
	k.Mul(&pht, &sInv)

	// x ← x + K·(z − H·x)
	var hx mat.VecDense
	hx.MulVec(h, f.x)
	innovation := mat.NewVecDense(f.m, nil)
	innovation.SubVec(z, &hx)
	var kx mat.VecDense
	kx.MulVec(&k, innovation)
	f.x.AddVec(f.x, &kx)

	// P ← (I − K·H)·P
	var kh mat.Dense
	kh.Mul(&k, h)
	ikh := identity(f.n)
	ikh.Sub(ikh, &kh)
	var p mat.Dense
	p.Mul(ikh, f.p)
	f.p.Copy(&p)

	if f.k == nil {
		f.k = mat.NewDense(f.n, f.m, nil)
	}
	f.k.Copy(&k)
	return nil
}

func identity(n int) *mat.Dense {
	i := mat.NewDense(n, n, nil)
	for d := 0; d < n; d++ {
		i.Set(d, d, 1)
	}
	return i
}
