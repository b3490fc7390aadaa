package geom

import (
	"fmt"
	"math"
)

// Region is a convex region of the plane.
type Region interface {
	// Contains reports whether p lies inside the region or on its
	// boundary, within the region's tolerance.
	Contains(p Point2D) bool
	// Area returns the area of the region.
	Area() float64
	// Barycenter returns the centroid of the region.
	Barycenter() Point2D
}

// RegionFactory builds a convex region from an ordered list of oriented
// boundary lines. Consecutive lines are expected to intersect; the
// region is the intersection of the half-planes they bound.
type RegionFactory interface {
	BuildConvex(lines []Line) (Region, error)
}

// PolygonRegionFactory is the default RegionFactory. It recovers the
// polygon vertices by intersecting consecutive boundary lines and
// answers area, centroid and containment queries from them.
type PolygonRegionFactory struct{}

// BuildConvex implements RegionFactory.
func (PolygonRegionFactory) BuildConvex(lines []Line) (Region, error) {
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: have %d boundary lines, need 3", ErrInsufficientData, len(lines))
	}

	n := len(lines)
	vertices := make([]Point2D, n)
	tolerance := 0.0
	for i, line := range lines {
		p, ok := line.Intersection(lines[(i+1)%n])
		if !ok {
			return nil, fmt.Errorf("geom: consecutive boundary lines %d and %d do not intersect", i, (i+1)%n)
		}
		vertices[i] = p
		if line.Tolerance() > tolerance {
			tolerance = line.Tolerance()
		}
	}

	// Shoelace over the recovered ring. The sign tells us which side of
	// the oriented boundary lines is the interior.
	signed := 0.0
	for i, p := range vertices {
		q := vertices[(i+1)%n]
		signed += p.Cross(q)
	}
	signed /= 2

	return &polygonRegion{
		lines:     append([]Line(nil), lines...),
		vertices:  vertices,
		area:      math.Abs(signed),
		ccw:       signed >= 0,
		tolerance: tolerance,
	}, nil
}

// polygonRegion is a convex polygon represented by its oriented
// boundary lines and the vertex ring recovered from them.
type polygonRegion struct {
	lines     []Line
	vertices  []Point2D
	area      float64
	ccw       bool
	tolerance float64
}

func (r *polygonRegion) Contains(p Point2D) bool {
	for _, line := range r.lines {
		offset := line.Offset(p)
		// Interior is on the left of each line for counter-clockwise
		// boundaries, on the right for clockwise ones.
		if r.ccw {
			if offset < -r.tolerance {
				return false
			}
		} else if offset > r.tolerance {
			return false
		}
	}
	return true
}

func (r *polygonRegion) Area() float64 { return r.area }

func (r *polygonRegion) Barycenter() Point2D {
	if r.area == 0 {
		// Flat polygon: fall back to the vertex mean.
		var c Point2D
		for _, p := range r.vertices {
			c = c.Add(p)
		}
		return c.Scale(1 / float64(len(r.vertices)))
	}

	n := len(r.vertices)
	signed := 0.0
	var c Point2D
	for i, p := range r.vertices {
		q := r.vertices[(i+1)%n]
		w := p.Cross(q)
		signed += w
		c = c.Add(p.Add(q).Scale(w))
	}
	return c.Scale(1 / (3 * signed))
}
