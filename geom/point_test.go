package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p := Point2D{3, 4}
	q := Point2D{1, 2}

	if got := p.Add(q); got != (Point2D{4, 6}) {
		t.Errorf("Add: got %+v", got)
	}
	if got := p.Sub(q); got != (Point2D{2, 2}) {
		t.Errorf("Sub: got %+v", got)
	}
	if got := p.Scale(2); got != (Point2D{6, 8}) {
		t.Errorf("Scale: got %+v", got)
	}
	if got := p.Dot(q); got != 11 {
		t.Errorf("Dot: got %f", got)
	}
	if got := p.Norm(); got != 5 {
		t.Errorf("Norm: got %f", got)
	}
	if got := p.Distance(Point2D{0, 0}); got != 5 {
		t.Errorf("Distance: got %f", got)
	}
}

func TestPointCrossOrientation(t *testing.T) {
	x := Point2D{1, 0}
	y := Point2D{0, 1}

	if got := x.Cross(y); got != 1 {
		t.Errorf("expected x×y = 1, got %f", got)
	}
	if got := y.Cross(x); got != -1 {
		t.Errorf("expected y×x = -1, got %f", got)
	}
	if got := x.Cross(Point2D{5, 0}); got != 0 {
		t.Errorf("expected parallel cross 0, got %f", got)
	}
}

func TestPointNormStability(t *testing.T) {
	// Hypot avoids overflow where naive sqrt(x²+y²) would not.
	p := Point2D{3e154, 4e154}
	if got := p.Norm(); math.IsInf(got, 0) {
		t.Error("Norm overflowed")
	}
}
