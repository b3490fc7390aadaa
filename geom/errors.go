package geom

import "errors"

var (
	// ErrNotConvex is returned by NewConvexHull2D when the ordered
	// vertices do not all turn in a consistent direction. The wrapped
	// message carries the index of the offending vertex.
	ErrNotConvex = errors.New("geom: vertices do not form a convex polygon")

	// ErrInsufficientData is returned by CreateRegion when the hull has
	// fewer than three vertices and no two-dimensional region exists.
	ErrInsufficientData = errors.New("geom: not enough vertices to build a region")

	// ErrIllegalTolerance is returned when a negative tolerance is
	// supplied to a constructor.
	ErrIllegalTolerance = errors.New("geom: tolerance must be non-negative")
)
