// Package geom provides planar geometric primitives used across the
// toolkit: points/vectors, oriented lines, line segments, and a
// validated convex-hull representation.
//
// ConvexHull2D wraps an already-ordered boundary vertex sequence; it
// validates convexity at construction and derives boundary segments and
// a convex region on demand. It does not compute hulls from unordered
// point clouds.
//
// All types are value types or immutable after construction. The hull's
// segment cache is published atomically, so concurrent readers are safe.
package geom
