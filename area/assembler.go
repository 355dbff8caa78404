package area

import (
	"math"
	"sort"

	"github.com/osmcore/relareas/osmentity"
)

// Assembler runs the multipolygon ring assembly algorithm. It depends only
// on the Geometry interface for the primitive planar tests; Config selects
// whether problems are collected.
type Assembler struct {
	geom            Geometry
	collectProblems bool
}

// Config controls assembler behavior.
type Config struct {
	CollectProblems bool
}

// New creates an Assembler backed by g, the concrete geometric primitives
// implementation (see package planar).
func New(g Geometry, cfg Config) *Assembler {
	return &Assembler{geom: g, collectProblems: cfg.CollectProblems}
}

// Assemble consumes relation plus its way members (each must already have
// node coordinates populated, see osmio.LocationIndex.ResolveWay) and
// produces an Area: either valid with outer/inner rings, or invalid with
// recorded problems.
func (asm *Assembler) Assemble(relation *osmentity.Relation, ways []*osmentity.Way) Area {
	out := Area{
		ID:   RelationAreaID(relation.ID),
		Tags: relation.Tags,
		Meta: relation.Meta,
	}

	segs := asm.extractSegments(ways)
	segs = cancelDuplicates(segs)

	if problems, ok := asm.findIntersections(segs); !ok {
		out.Valid = false
		if asm.collectProblems {
			out.Problems = problems
		}
		return out
	}

	rings := asm.buildRings(segs)

	if problems, ok := checkClosed(rings); !ok {
		out.Valid = false
		if asm.collectProblems {
			out.Problems = problems
		}
		return out
	}

	outers, inners := splitByOrientation(rings)

	innerOuter, problems, ok := asm.nestInners(outers, inners)
	if !ok {
		out.Valid = false
		if asm.collectProblems {
			out.Problems = problems
		}
		return out
	}

	out.Valid = true
	for _, r := range outers {
		out.Outers = append(out.Outers, ringToLinearRing(r.locs))
	}
	for _, r := range inners {
		out.Inners = append(out.Inners, ringToLinearRing(r.locs))
	}
	out.InnerOuter = innerOuter
	return out
}

// --- segment extraction and normalization ---

func (asm *Assembler) extractSegments(ways []*osmentity.Way) []Segment {
	var segs []Segment
	for _, w := range ways {
		refs := w.NodeRefs
		for i := 0; i+1 < len(refs); i++ {
			if s, ok := normalizeSegment(refs[i].Location, refs[i+1].Location); ok {
				segs = append(segs, s)
			}
		}
	}
	sort.Slice(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if !a.A.Equal(b.A) {
			return a.A.Less(b.A)
		}
		return a.B.Less(b.B)
	})
	return segs
}

// cancelDuplicates removes 2*floor(k/2) copies of any k-multiset of
// identical segments, leaving one survivor for odd k and none for even k.
// Shared borders between adjacent polygons vanish entirely.
func cancelDuplicates(sorted []Segment) []Segment {
	out := sorted[:0:0]
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].A == sorted[i].A && sorted[j].B == sorted[i].B {
			j++
		}
		count := j - i
		if count%2 == 1 {
			out = append(out, sorted[i])
		}
		i = j
	}
	return out
}

// --- intersection check ---

func (asm *Assembler) findIntersections(segs []Segment) ([]Problem, bool) {
	var problems []Problem
	ok := true
	for i := range segs {
		s1 := segs[i]
		maxX1 := s1.maxX()
		for j := i + 1; j < len(segs); j++ {
			s2 := segs[j]
			if s2.minX() > maxX1 {
				break
			}
			if !asm.geom.YRangesOverlap(s1, s2) {
				continue
			}
			if loc, hit := asm.geom.Intersect(s1, s2); hit {
				ok = false
				if asm.collectProblems {
					problems = append(problems, Problem{Kind: Intersection, Location: loc})
				} else {
					return nil, false
				}
			}
		}
	}
	return problems, ok
}

// --- ring assembly ---

type ringSet struct {
	rings []*protoRing
}

func (asm *Assembler) buildRings(segs []Segment) []*protoRing {
	rs := &ringSet{}
	for i := range segs {
		s := &segs[i]
		if idx, end := rs.findAttachable(*s); idx >= 0 {
			r := rs.rings[idx]
			switch end {
			case attachLastFirst:
				r.pushBack(s.B)
			case attachLastSecond:
				r.pushBack(s.A)
			case attachFirstFirst:
				r.pushFront(s.B)
			case attachFirstSecond:
				r.pushFront(s.A)
			}
			s.ring = idx
			rs.combineFrom(idx, segs)
			continue
		}

		cw := rs.determineOrientation(asm.geom, segs[:i], s.leftPoint())
		r := newProtoRing(s.A, s.B, cw)
		s.ring = len(rs.rings)
		rs.rings = append(rs.rings, r)
	}
	return rs.rings
}

type attachKind int

const (
	attachNone attachKind = iota
	attachLastFirst
	attachLastSecond
	attachFirstFirst
	attachFirstSecond
)

func (rs *ringSet) findAttachable(s Segment) (int, attachKind) {
	for idx, r := range rs.rings {
		if r.merged || r.closed() {
			continue
		}
		switch {
		case r.last() == s.A:
			return idx, attachLastFirst
		case r.last() == s.B:
			return idx, attachLastSecond
		case r.first() == s.A:
			return idx, attachFirstFirst
		case r.first() == s.B:
			return idx, attachFirstSecond
		}
	}
	return -1, attachNone
}

// combineFrom repeatedly merges rings[idx] with any other open ring whose
// endpoint now matches one of rings[idx]'s endpoints, updating every
// segment that pointed at a discarded ring to point at the survivor.
func (rs *ringSet) combineFrom(idx int, segs []Segment) {
	for {
		r := rs.rings[idx]
		merged := false
		for j, o := range rs.rings {
			if j == idx || o.merged || o.closed() {
				continue
			}
			switch {
			case r.last() == o.first():
				r.appendFrom(o)
			case r.last() == o.last():
				o.reverse()
				r.appendFrom(o)
			case r.first() == o.last():
				r.prependFrom(o)
			case r.first() == o.first():
				o.reverse()
				r.prependFrom(o)
			default:
				continue
			}
			o.merged = true
			for k := range segs {
				if segs[k].ring == j {
					segs[k].ring = idx
				}
			}
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

// determineOrientation scans previously-processed segments in reverse to
// find the nearest one, vertically in range of loc, to the left; the new
// ring inherits the opposite orientation of that segment's current ring.
// Absent such a segment, default to clockwise (outer). The horizontal-ray
// heuristic can mis-classify orientation when the ray grazes a vertex
// exactly.
func (rs *ringSet) determineOrientation(g Geometry, processed []Segment, loc osmentity.Location) bool {
	for i := len(processed) - 1; i >= 0; i-- {
		s := processed[i]
		if loc.Y < s.minY() || loc.Y > s.maxY() {
			continue
		}
		if (s.A.X <= loc.X && s.B.X <= loc.X) || g.IsBelow(loc, s) {
			if s.ring < 0 || s.ring >= len(rs.rings) {
				break
			}
			return !rs.rings[s.ring].cw
		}
	}
	return true
}

// --- closure check ---

func checkClosed(rings []*protoRing) ([]Problem, bool) {
	var problems []Problem
	ok := true
	for _, r := range rings {
		if r.merged {
			continue
		}
		if !r.closed() {
			ok = false
			problems = append(problems,
				Problem{Kind: RingNotClosed, Location: r.first()},
				Problem{Kind: RingNotClosed, Location: r.last()},
			)
		}
	}
	return problems, ok
}

// --- inner/outer nesting ---

func splitByOrientation(rings []*protoRing) (outers, inners []*protoRing) {
	for _, r := range rings {
		if r.merged {
			continue
		}
		if r.cw {
			outers = append(outers, r)
		} else {
			inners = append(inners, r)
		}
	}
	return outers, inners
}

func (asm *Assembler) nestInners(outers, inners []*protoRing) ([]int, []Problem, bool) {
	result := make([]int, len(inners))
	var problems []Problem
	ok := true
	for i, inner := range inners {
		best := -1
		bestArea := math.MaxFloat64
		pt := inner.first()
		for oi, outer := range outers {
			if !asm.geom.PointInRing(pt, outer.locs) {
				continue
			}
			a := ringArea(outer.locs)
			if a < bestArea {
				bestArea = a
				best = oi
			}
		}
		if best < 0 {
			ok = false
			problems = append(problems, Problem{Kind: NoOuterRingForInner, Location: pt})
			continue
		}
		result[i] = best
	}
	return result, problems, ok
}

// ringArea computes the absolute planar area of a closed ring via the
// shoelace formula, used only to break ties when more than one outer ring
// contains an inner ring: the smallest containing outer wins.
func ringArea(locs []osmentity.Location) float64 {
	var sum float64
	for i := 0; i+1 < len(locs); i++ {
		a, b := locs[i], locs[i+1]
		sum += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
