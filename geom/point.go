package geom

import "math"

// Point2D is a point (or free vector) in the Euclidean plane.
type Point2D struct {
	X float64
	Y float64
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by k.
func (p Point2D) Scale(k float64) Point2D {
	return Point2D{X: k * p.X, Y: k * p.Y}
}

// Dot returns the dot product of p and q taken as vectors.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product p × q.
// Positive when q lies counter-clockwise of p.
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Norm returns the Euclidean length of p taken as a vector.
func (p Point2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
