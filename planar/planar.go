// Package planar implements the planar geometric primitives the area
// assembler consumes: segment intersection, the half-plane "is below"
// test used for winding determination, and point-in-ring containment.
package planar

import (
	"github.com/osmcore/relareas/area"
	"github.com/osmcore/relareas/osmentity"
)

// Helpers is the default area.Geometry implementation, operating directly
// on OSM's fixed-point integer coordinates.
type Helpers struct{}

var _ area.Geometry = Helpers{}

// YRangesOverlap reports whether s1 and s2's y-extents overlap, inclusive.
func (Helpers) YRangesOverlap(s1, s2 area.Segment) bool {
	min1, max1 := minmaxY(s1)
	min2, max2 := minmaxY(s2)
	return min1 <= max2 && min2 <= max1
}

func minmaxY(s area.Segment) (int32, int32) {
	if s.A.Y < s.B.Y {
		return s.A.Y, s.B.Y
	}
	return s.B.Y, s.A.Y
}

// IsBelow implements the half-plane test: whether loc lies on or below the
// directed line from seg.A to seg.B, via the sign of the cross product
// (B-A) x (loc-A).
func (Helpers) IsBelow(loc osmentity.Location, seg area.Segment) bool {
	ax, ay := float64(seg.A.X), float64(seg.A.Y)
	bx, by := float64(seg.B.X), float64(seg.B.Y)
	cx, cy := float64(loc.X), float64(loc.Y)
	cross := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	return cross <= 0
}

// Intersect reports a proper intersection between s1 and s2, one that
// does not occur at a shared endpoint. Implemented via the standard
// segment-segment orientation test (Cormen et al.); collinear segments,
// overlapping or not, are never reported.
func (Helpers) Intersect(s1, s2 area.Segment) (osmentity.Location, bool) {
	p1, p2 := s1.A, s1.B
	p3, p4 := s2.A, s2.B

	if sharesEndpoint(p1, p2, p3, p4) {
		return osmentity.Location{}, false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return lineIntersection(p1, p2, p3, p4)
	}
	return osmentity.Location{}, false
}

func sharesEndpoint(p1, p2, p3, p4 osmentity.Location) bool {
	return p1.Equal(p3) || p1.Equal(p4) || p2.Equal(p3) || p2.Equal(p4)
}

func direction(a, b, c osmentity.Location) float64 {
	return (float64(c.X)-float64(a.X))*(float64(b.Y)-float64(a.Y)) -
		(float64(b.X)-float64(a.X))*(float64(c.Y)-float64(a.Y))
}

func lineIntersection(p1, p2, p3, p4 osmentity.Location) (osmentity.Location, bool) {
	x1, y1 := float64(p1.X), float64(p1.Y)
	x2, y2 := float64(p2.X), float64(p2.Y)
	x3, y3 := float64(p3.X), float64(p3.Y)
	x4, y4 := float64(p4.X), float64(p4.Y)

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return osmentity.Location{}, false
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	x := x1 + t*(x2-x1)
	y := y1 + t*(y2-y1)
	return osmentity.Location{X: int32(x), Y: int32(y)}, true
}

// PointInRing reports whether pt lies inside the closed polyline ring,
// using the standard ray-casting (even-odd) rule.
func (Helpers) PointInRing(pt osmentity.Location, ring []osmentity.Location) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, yj := ring[i].Y, ring[j].Y
		xi, xj := ring[i].X, ring[j].X
		if (yi > pt.Y) != (yj > pt.Y) {
			xIntersect := float64(xi) + (float64(pt.Y-yi)/float64(yj-yi))*float64(xj-xi)
			if float64(pt.X) < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}
