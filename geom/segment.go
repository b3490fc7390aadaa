package geom

// Segment is a directed line segment between two endpoints, carrying
// the infinite line through them.
type Segment struct {
	start Point2D
	end   Point2D
	line  Line
}

// NewSegment builds the segment from start to end. The supporting line
// inherits the given tolerance. Only a negative tolerance is rejected.
func NewSegment(start, end Point2D, tolerance float64) (Segment, error) {
	line, err := NewLine(start, end, tolerance)
	if err != nil {
		return Segment{}, err
	}
	return Segment{start: start, end: end, line: line}, nil
}

// Start returns the first endpoint.
func (s Segment) Start() Point2D { return s.start }

// End returns the second endpoint.
func (s Segment) End() Point2D { return s.end }

// Line returns the oriented line supporting the segment.
func (s Segment) Line() Line { return s.line }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.start.Distance(s.end)
}

// Distance returns the shortest Euclidean distance from p to the
// segment. The point is projected onto the supporting line with
// parameter r = ((p-start)·d)/(d·d); when r falls outside [0,1] the
// projection lies beyond an endpoint and the nearer endpoint wins.
func (s Segment) Distance(p Point2D) float64 {
	d := s.end.Sub(s.start)
	dd := d.Dot(d)
	if dd == 0 {
		// Degenerate segment: both endpoints coincide.
		return p.Distance(s.start)
	}

	r := p.Sub(s.start).Dot(d) / dd
	if r < 0 {
		return p.Distance(s.start)
	}
	if r > 1 {
		return p.Distance(s.end)
	}

	foot := s.start.Add(d.Scale(r))
	return p.Distance(foot)
}
