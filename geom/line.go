package geom

// Line is an oriented infinite line in the plane, defined by an origin
// point and a unit direction. The orientation matters: Offset is
// positive for points on the left of the direction of travel, negative
// on the right. A tolerance below which points are considered to lie on
// the line is carried with the line itself.
type Line struct {
	origin    Point2D
	direction Point2D // unit vector; zero for a degenerate line
	tolerance float64
}

// NewLine builds the oriented line through p1 and p2, in that
// direction. A line through two coincident points is degenerate: its
// direction is the zero vector and Offset degrades to the distance to
// p1. The only rejected input is a negative tolerance.
func NewLine(p1, p2 Point2D, tolerance float64) (Line, error) {
	if tolerance < 0 {
		return Line{}, ErrIllegalTolerance
	}
	d := p2.Sub(p1)
	if n := d.Norm(); n > 0 {
		d = d.Scale(1 / n)
	}
	return Line{origin: p1, direction: d, tolerance: tolerance}, nil
}

// Origin returns the point the line was anchored at.
func (l Line) Origin() Point2D { return l.origin }

// Direction returns the unit direction of the line.
func (l Line) Direction() Point2D { return l.direction }

// Tolerance returns the on-line distance threshold.
func (l Line) Tolerance() float64 { return l.tolerance }

// Offset returns the signed distance from p to the line: positive on
// the left of the direction of travel, negative on the right.
func (l Line) Offset(p Point2D) float64 {
	v := p.Sub(l.origin)
	if l.direction == (Point2D{}) {
		return v.Norm()
	}
	return l.direction.Cross(v)
}

// Distance returns the unsigned distance from p to the line.
func (l Line) Distance(p Point2D) float64 {
	o := l.Offset(p)
	if o < 0 {
		return -o
	}
	return o
}

// Project returns the orthogonal projection of p onto the line.
func (l Line) Project(p Point2D) Point2D {
	t := p.Sub(l.origin).Dot(l.direction)
	return l.origin.Add(l.direction.Scale(t))
}

// Contains reports whether p lies on the line within its tolerance.
func (l Line) Contains(p Point2D) bool {
	return l.Distance(p) <= l.tolerance
}

// Intersection returns the intersection point of l and other. The
// second return value is false when the lines are parallel (or either
// is degenerate) within the receiver's tolerance.
func (l Line) Intersection(other Line) (Point2D, bool) {
	den := l.direction.Cross(other.direction)
	if den > -1e-15 && den < 1e-15 {
		return Point2D{}, false
	}
	t := other.origin.Sub(l.origin).Cross(other.direction) / den
	return l.origin.Add(l.direction.Scale(t)), true
}
