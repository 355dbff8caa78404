// Package area implements multipolygon ring assembly: turning a
// relation's way members into one or more outer rings, each with zero or
// more nested inner rings, or marking the result invalid with a list of
// problems. The emitted Area type wraps github.com/twpayne/go-geom rings.
package area

import (
	"github.com/twpayne/go-geom"

	"github.com/osmcore/relareas/osmentity"
)

// Area is the entity the assembler emits: a multipolygon derived from a
// relation, plus whatever geometric problems were found along the way.
// Inner rings are associated with their containing outer ring via the
// InnerOuter index table rather than pointers embedded in the ring
// records.
type Area struct {
	ID    int64
	Tags  osmentity.Tags
	Meta  osmentity.Meta
	Valid bool

	Outers     []*geom.LinearRing
	Inners     []*geom.LinearRing
	InnerOuter []int // InnerOuter[i] is the index into Outers containing Inners[i]

	Problems []Problem
}

// RelationAreaID derives an Area's id from its source relation's id: the
// low bit distinguishes multipolygon-derived areas (1) from way-derived
// areas elsewhere in a larger pipeline (0); the shift preserves
// bit-level uniqueness between the two id spaces.
func RelationAreaID(relationID int64) int64 {
	return relationID*2 + 1
}

// InnersOf returns the inner rings nested inside Outers[outerIdx].
func (a *Area) InnersOf(outerIdx int) []*geom.LinearRing {
	var out []*geom.LinearRing
	for i, o := range a.InnerOuter {
		if o == outerIdx {
			out = append(out, a.Inners[i])
		}
	}
	return out
}

// MultiPolygon assembles the full go-geom representation: one geom.Polygon
// per outer ring, each polygon's first ring the shell and the rest its
// holes.
func (a *Area) MultiPolygon() *geom.MultiPolygon {
	mp := geom.NewMultiPolygon(geom.XY)
	for i, outer := range a.Outers {
		poly := geom.NewPolygon(geom.XY)
		poly.Push(outer)
		for _, inner := range a.InnersOf(i) {
			poly.Push(inner)
		}
		_ = mp.Push(poly)
	}
	return mp
}

func ringToLinearRing(locs []osmentity.Location) *geom.LinearRing {
	flat := make([]float64, 0, len(locs)*2)
	for _, l := range locs {
		flat = append(flat, fixedToDeg(l.X), fixedToDeg(l.Y))
	}
	return geom.NewLinearRingFlat(geom.XY, flat)
}

// fixedToDeg converts OSM's 1e-7 fixed-point integer coordinates back to
// floating-point degrees for the emitted go-geom geometry.
func fixedToDeg(v int32) float64 {
	return float64(v) / 1e7
}
