package planar

import (
	"testing"

	"github.com/osmcore/relareas/area"
	"github.com/osmcore/relareas/osmentity"
)

func l(x, y int32) osmentity.Location { return osmentity.Location{X: x, Y: y} }

func TestYRangesOverlap(t *testing.T) {
	h := Helpers{}
	s1 := area.Segment{A: l(0, 0), B: l(10, 10)}
	s2 := area.Segment{A: l(0, 5), B: l(10, 15)}
	if !h.YRangesOverlap(s1, s2) {
		t.Errorf("expected overlapping y-ranges to report true")
	}
	s3 := area.Segment{A: l(0, 20), B: l(10, 30)}
	if h.YRangesOverlap(s1, s3) {
		t.Errorf("expected disjoint y-ranges to report false")
	}
}

func TestIntersectProperCrossing(t *testing.T) {
	h := Helpers{}
	s1 := area.Segment{A: l(0, 0), B: l(10, 10)}
	s2 := area.Segment{A: l(0, 10), B: l(10, 0)}
	loc, ok := h.Intersect(s1, s2)
	if !ok {
		t.Fatalf("expected the two diagonals to report a proper intersection")
	}
	if loc.X != 5 || loc.Y != 5 {
		t.Errorf("intersection point = %v, want (5,5)", loc)
	}
}

func TestIntersectSharedEndpointIsNotProper(t *testing.T) {
	h := Helpers{}
	s1 := area.Segment{A: l(0, 0), B: l(10, 10)}
	s2 := area.Segment{A: l(0, 0), B: l(10, 0)}
	if _, ok := h.Intersect(s1, s2); ok {
		t.Errorf("segments sharing an endpoint should not report a proper intersection")
	}
}

func TestIntersectParallelNonCrossing(t *testing.T) {
	h := Helpers{}
	s1 := area.Segment{A: l(0, 0), B: l(10, 0)}
	s2 := area.Segment{A: l(0, 5), B: l(10, 5)}
	if _, ok := h.Intersect(s1, s2); ok {
		t.Errorf("parallel non-overlapping segments should not intersect")
	}
}

func TestIsBelow(t *testing.T) {
	h := Helpers{}
	seg := area.Segment{A: l(0, 0), B: l(10, 0)}
	if !h.IsBelow(l(5, -5), seg) {
		t.Errorf("a point below a horizontal segment should report IsBelow true")
	}
	if h.IsBelow(l(5, 5), seg) {
		t.Errorf("a point above a horizontal segment should report IsBelow false")
	}
}

func TestPointInRing(t *testing.T) {
	h := Helpers{}
	ring := []osmentity.Location{l(0, 0), l(0, 10), l(10, 10), l(10, 0), l(0, 0)}
	if !h.PointInRing(l(5, 5), ring) {
		t.Errorf("expected center point to be inside the ring")
	}
	if h.PointInRing(l(20, 20), ring) {
		t.Errorf("expected far point to be outside the ring")
	}
}

func TestPointInRingDegenerate(t *testing.T) {
	h := Helpers{}
	if h.PointInRing(l(0, 0), []osmentity.Location{l(0, 0), l(1, 0)}) {
		t.Errorf("a ring with fewer than 3 points can never contain a point")
	}
}
