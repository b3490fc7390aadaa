package geom

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustHull(t *testing.T, vertices []Point2D, tolerance float64) *ConvexHull2D {
	t.Helper()
	h, err := NewConvexHull2D(vertices, tolerance)
	if err != nil {
		t.Fatalf("hull construction failed: %v", err)
	}
	return h
}

func TestConvexHullSquare(t *testing.T) {
	square := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	h := mustHull(t, square, 1e-10)

	segments := h.LineSegments()
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}

	perimeter := 0.0
	for i, seg := range segments {
		if l := seg.Length(); math.Abs(l-1) > 1e-12 {
			t.Errorf("segment %d: expected length 1, got %f", i, l)
		}
		perimeter += seg.Length()
	}
	if math.Abs(perimeter-4) > 1e-12 {
		t.Errorf("expected perimeter 4, got %f", perimeter)
	}

	// The ring closes back to the first vertex.
	last := segments[len(segments)-1]
	if last.End() != square[0] {
		t.Errorf("last segment ends at %+v, want %+v", last.End(), square[0])
	}
}

func TestConvexHullClockwiseAccepted(t *testing.T) {
	// Orientation is free; only consistency of the turn direction matters.
	mustHull(t, []Point2D{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, 1e-10)
}

func TestConvexHullNotConvex(t *testing.T) {
	_, err := NewConvexHull2D([]Point2D{{0, 0}, {2, 2}, {1, 0}, {1, 1}}, 1e-10)
	if !errors.Is(err, ErrNotConvex) {
		t.Fatalf("expected ErrNotConvex, got %v", err)
	}
}

func TestConvexHullCollinearAccepted(t *testing.T) {
	// Midpoints on the edges produce zero cross products, which never
	// affect the running turn sign.
	h := mustHull(t, []Point2D{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}}, 1e-10)
	if len(h.LineSegments()) != 5 {
		t.Errorf("expected 5 segments, got %d", len(h.LineSegments()))
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		vertices []Point2D
		segments int
	}{
		{"empty", nil, 0},
		{"point", []Point2D{{1, 2}}, 0},
		{"segment", []Point2D{{0, 0}, {3, 4}}, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := mustHull(t, tc.vertices, 1e-10)
			if got := len(h.LineSegments()); got != tc.segments {
				t.Errorf("expected %d segments, got %d", tc.segments, got)
			}
		})
	}
}

func TestConvexHullTwoPointSegmentLength(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {3, 4}}, 1e-10)

	segments := h.LineSegments()
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if l := segments[0].Length(); math.Abs(l-5) > 1e-12 {
		t.Errorf("expected length 5, got %f", l)
	}
}

func TestConvexHullNegativeTolerance(t *testing.T) {
	if _, err := NewConvexHull2D(nil, -1); !errors.Is(err, ErrIllegalTolerance) {
		t.Errorf("expected ErrIllegalTolerance, got %v", err)
	}
}

func TestConvexHullVerticesAreCopied(t *testing.T) {
	input := []Point2D{{0, 0}, {1, 0}, {1, 1}}
	h := mustHull(t, input, 1e-10)

	input[0] = Point2D{99, 99}
	if diff := cmp.Diff([]Point2D{{0, 0}, {1, 0}, {1, 1}}, h.Vertices()); diff != "" {
		t.Errorf("vertices changed through caller slice (-want +got):\n%s", diff)
	}

	got := h.Vertices()
	got[0] = Point2D{-1, -1}
	if h.Vertices()[0] != (Point2D{0, 0}) {
		t.Error("vertices mutated through accessor copy")
	}
}

func TestConvexHullSegmentCacheIsolation(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1e-10)

	first := h.LineSegments()
	first[0] = Segment{}

	second := h.LineSegments()
	if second[0].Start() != (Point2D{0, 0}) || second[0].End() != (Point2D{1, 0}) {
		t.Error("segment cache mutated through returned copy")
	}
}

func TestConvexHullLineSegmentsConcurrent(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1e-10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := len(h.LineSegments()); got != 4 {
				t.Errorf("expected 4 segments, got %d", got)
			}
		}()
	}
	wg.Wait()
}

func TestCreateRegionInsufficientData(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {3, 4}}, 1e-10)

	if _, err := h.CreateRegion(); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	// The hull itself remains usable after the failed region request.
	if len(h.LineSegments()) != 1 {
		t.Error("hull unusable after CreateRegion failure")
	}
}

func TestCreateRegionUnitSquare(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1e-10)

	region, err := h.CreateRegion()
	if err != nil {
		t.Fatalf("CreateRegion: %v", err)
	}

	if a := region.Area(); math.Abs(a-1) > 1e-12 {
		t.Errorf("expected area 1, got %f", a)
	}
	c := region.Barycenter()
	if math.Abs(c.X-0.5) > 1e-12 || math.Abs(c.Y-0.5) > 1e-12 {
		t.Errorf("expected barycenter (0.5,0.5), got %+v", c)
	}

	for _, tc := range []struct {
		p    Point2D
		want bool
	}{
		{Point2D{0.5, 0.5}, true},
		{Point2D{0, 0}, true},
		{Point2D{1, 1}, true},
		{Point2D{1.5, 0.5}, false},
		{Point2D{-0.1, 0.5}, false},
	} {
		if got := region.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%+v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestCreateRegionClockwiseSquare(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, 1e-10)

	region, err := h.CreateRegion()
	if err != nil {
		t.Fatalf("CreateRegion: %v", err)
	}
	if a := region.Area(); math.Abs(a-1) > 1e-12 {
		t.Errorf("expected area 1, got %f", a)
	}
	if !region.Contains(Point2D{0.5, 0.5}) {
		t.Error("clockwise region does not contain its own centre")
	}
	if region.Contains(Point2D{2, 2}) {
		t.Error("clockwise region contains an outside point")
	}
}

func TestCreateRegionWithCustomFactory(t *testing.T) {
	h := mustHull(t, []Point2D{{0, 0}, {1, 0}, {1, 1}}, 1e-10)

	called := false
	_, err := h.CreateRegionWith(regionFactoryFunc(func(lines []Line) (Region, error) {
		called = true
		if len(lines) != 3 {
			t.Errorf("expected 3 boundary lines, got %d", len(lines))
		}
		return nil, nil
	}))
	if err != nil {
		t.Fatalf("CreateRegionWith: %v", err)
	}
	if !called {
		t.Error("custom factory was not invoked")
	}
}

type regionFactoryFunc func([]Line) (Region, error)

func (f regionFactoryFunc) BuildConvex(lines []Line) (Region, error) { return f(lines) }
