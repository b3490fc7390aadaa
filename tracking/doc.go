// Package tracking implements multi-object tracking on top of the
// kalman package: a constant-velocity process model per track, greedy
// nearest-neighbour association under Mahalanobis gating, and an
// explicit track lifecycle (tentative, confirmed, deleted).
//
// The Tracker is safe for concurrent use; individual Track snapshots
// returned by its accessors must not be mutated by callers.
package tracking
