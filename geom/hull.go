package geom

import (
	"fmt"
	"sync"
)

// ConvexHull2D is a convex polygon given as an ordered boundary vertex
// sequence. Construction validates convexity once; the object is
// immutable afterwards. Degenerate hulls with fewer than three vertices
// (empty, single point, single segment) are permitted.
type ConvexHull2D struct {
	vertices  []Point2D
	tolerance float64

	segOnce  sync.Once
	segments []Segment
}

// NewConvexHull2D validates the ordered vertices and builds a hull.
//
// Convexity check: for every cyclic triple (p1,p2,p3) the cross product
// of the edge vectors p2-p1 and p3-p2 must share the sign of the first
// nonzero cross product. Collinear triples (zero cross) are accepted
// and do not fix the sign. Fewer than three vertices are trivially
// convex. ErrNotConvex carries the index of the vertex at which the
// turn direction flipped.
func NewConvexHull2D(vertices []Point2D, tolerance float64) (*ConvexHull2D, error) {
	if tolerance < 0 {
		return nil, ErrIllegalTolerance
	}

	n := len(vertices)
	if n >= 3 {
		sign := 0
		for i := range vertices {
			p1 := vertices[i]
			p2 := vertices[(i+1)%n]
			p3 := vertices[(i+2)%n]
			cross := p2.Sub(p1).Cross(p3.Sub(p2))
			switch {
			case cross > 0:
				if sign < 0 {
					return nil, fmt.Errorf("%w: turn direction flips at vertex %d", ErrNotConvex, (i+2)%n)
				}
				sign = 1
			case cross < 0:
				if sign > 0 {
					return nil, fmt.Errorf("%w: turn direction flips at vertex %d", ErrNotConvex, (i+2)%n)
				}
				sign = -1
			}
		}
	}

	vs := make([]Point2D, n)
	copy(vs, vertices)
	return &ConvexHull2D{vertices: vs, tolerance: tolerance}, nil
}

// Vertices returns a copy of the ordered boundary vertices.
func (h *ConvexHull2D) Vertices() []Point2D {
	vs := make([]Point2D, len(h.vertices))
	copy(vs, h.vertices)
	return vs
}

// Tolerance returns the geometric tolerance the hull was built with.
func (h *ConvexHull2D) Tolerance() float64 { return h.tolerance }

// LineSegments returns the boundary segments of the hull:
//
//   - 0 or 1 vertices: no segments
//   - 2 vertices: the single segment between them
//   - 3+ vertices: one segment per consecutive pair, closing the ring
//     from the last vertex back to the first
//
// The segments are computed once and cached; every call returns a fresh
// copy of the cached slice.
func (h *ConvexHull2D) LineSegments() []Segment {
	h.segOnce.Do(func() { h.segments = h.buildSegments() })

	out := make([]Segment, len(h.segments))
	copy(out, h.segments)
	return out
}

func (h *ConvexHull2D) buildSegments() []Segment {
	n := len(h.vertices)
	if n < 2 {
		return nil
	}
	if n == 2 {
		// Tolerance is validated at construction; NewSegment cannot fail.
		seg, _ := NewSegment(h.vertices[0], h.vertices[1], h.tolerance)
		return []Segment{seg}
	}

	segments := make([]Segment, 0, n)
	for i := range h.vertices {
		seg, _ := NewSegment(h.vertices[i], h.vertices[(i+1)%n], h.tolerance)
		segments = append(segments, seg)
	}
	return segments
}

// CreateRegion builds the convex region enclosed by the hull using the
// default PolygonRegionFactory. It fails with ErrInsufficientData when
// the hull is degenerate (fewer than three vertices); the hull itself
// remains valid for all other operations.
func (h *ConvexHull2D) CreateRegion() (Region, error) {
	return h.CreateRegionWith(PolygonRegionFactory{})
}

// CreateRegionWith is CreateRegion with a caller-supplied factory.
func (h *ConvexHull2D) CreateRegionWith(factory RegionFactory) (Region, error) {
	if len(h.vertices) < 3 {
		return nil, fmt.Errorf("%w: have %d, need 3", ErrInsufficientData, len(h.vertices))
	}

	segments := h.LineSegments()
	lines := make([]Line, len(segments))
	for i, seg := range segments {
		lines[i] = seg.Line()
	}
	return factory.BuildConvex(lines)
}
