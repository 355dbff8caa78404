package area

import "github.com/osmcore/relareas/osmentity"

// Segment is an undirected edge between two locations. Once extracted, it
// is normalized so A <= B under the lexicographic (x, y) order, which is
// what lets duplicate cancellation and the sweep work on a flat sorted
// slice instead of a graph.
type Segment struct {
	A, B osmentity.Location
	// ring is the index, into the assembler's rings slice, of the
	// proto-ring this segment currently belongs to. It is kept up to date
	// across ring merges so a later backward orientation scan always sees
	// the surviving ring.
	ring int
}

func normalizeSegment(a, b osmentity.Location) (Segment, bool) {
	if a == b {
		return Segment{}, false
	}
	if b.Less(a) {
		a, b = b, a
	}
	return Segment{A: a, B: b, ring: -1}, true
}

func (s Segment) leftPoint() osmentity.Location {
	return s.A // normalization guarantees A <= B, so A is the left endpoint
}

func (s Segment) minX() int32 {
	if s.A.X < s.B.X {
		return s.A.X
	}
	return s.B.X
}

func (s Segment) maxX() int32 {
	if s.A.X > s.B.X {
		return s.A.X
	}
	return s.B.X
}

func (s Segment) minY() int32 {
	if s.A.Y < s.B.Y {
		return s.A.Y
	}
	return s.B.Y
}

func (s Segment) maxY() int32 {
	if s.A.Y > s.B.Y {
		return s.A.Y
	}
	return s.B.Y
}

// Geometry is the set of planar primitives the assembler consumes;
// planar.Helpers in this module is the concrete implementation the CLI
// wires in.
type Geometry interface {
	// YRangesOverlap reports whether s1 and s2's y-extents overlap.
	YRangesOverlap(s1, s2 Segment) bool
	// Intersect reports a proper intersection point between s1 and s2,
	// one that is not at a shared endpoint. Implementations must return
	// ok == false for segments that only touch at an endpoint.
	Intersect(s1, s2 Segment) (loc osmentity.Location, ok bool)
	// IsBelow implements the half-plane test used by orientation
	// determination: whether loc lies on or below the line through seg.
	IsBelow(loc osmentity.Location, seg Segment) bool
	// PointInRing reports whether pt lies inside the closed polyline ring.
	PointInRing(pt osmentity.Location, ring []osmentity.Location) bool
}
