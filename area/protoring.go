package area

import "github.com/osmcore/relareas/osmentity"

// protoRing is an assembler-internal, possibly unclosed, doubly-ended
// polyline built up as segments attach to it. Locations are kept in a
// single growable slice; prepending is O(n), which is acceptable at the
// ring sizes a single relation's member ways produce.
type protoRing struct {
	locs   []osmentity.Location
	cw     bool
	merged bool // tombstoned: folded into another ring, no longer open
}

func newProtoRing(a, b osmentity.Location, cw bool) *protoRing {
	return &protoRing{locs: []osmentity.Location{a, b}, cw: cw}
}

func (r *protoRing) first() osmentity.Location { return r.locs[0] }
func (r *protoRing) last() osmentity.Location  { return r.locs[len(r.locs)-1] }

func (r *protoRing) closed() bool {
	return len(r.locs) >= 3 && r.first().Equal(r.last())
}

func (r *protoRing) pushBack(loc osmentity.Location) {
	r.locs = append(r.locs, loc)
}

func (r *protoRing) pushFront(loc osmentity.Location) {
	r.locs = append(r.locs, osmentity.Location{})
	copy(r.locs[1:], r.locs)
	r.locs[0] = loc
}

func (r *protoRing) reverse() {
	for i, j := 0, len(r.locs)-1; i < j; i, j = i+1, j-1 {
		r.locs[i], r.locs[j] = r.locs[j], r.locs[i]
	}
}

// appendFrom concatenates other onto the end of r, assuming r.last() ==
// other.first(); the shared point is not duplicated.
func (r *protoRing) appendFrom(other *protoRing) {
	r.locs = append(r.locs, other.locs[1:]...)
}

// prependFrom concatenates other before the start of r, assuming
// r.first() == other.last(); the shared point is not duplicated.
func (r *protoRing) prependFrom(other *protoRing) {
	merged := make([]osmentity.Location, 0, len(r.locs)+len(other.locs)-1)
	merged = append(merged, other.locs[:len(other.locs)-1]...)
	merged = append(merged, r.locs...)
	r.locs = merged
}
