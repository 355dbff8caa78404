// Package osmentity defines the immutable entity types that flow through
// the relations manager and area assembler: nodes, ways, and relations.
// The derived area geometries are defined in package area.
package osmentity

// Kind identifies one of the three OSM entity kinds.
type Kind uint8

const (
	KindNode Kind = iota
	KindWay
	KindRelation
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindWay:
		return "way"
	case KindRelation:
		return "relation"
	default:
		return "unknown"
	}
}

// Location is a fixed-point planar coordinate, stored as OSM's conventional
// 1e-7 degree integers so comparisons and orderings are exact.
type Location struct {
	X int32
	Y int32
}

// Less implements the lexicographic (x, y) order segment normalization and
// sorting depend on.
func (l Location) Less(o Location) bool {
	if l.X != o.X {
		return l.X < o.X
	}
	return l.Y < o.Y
}

func (l Location) Equal(o Location) bool {
	return l.X == o.X && l.Y == o.Y
}

// Valid reports whether the location was ever assigned; the zero Location
// is used as "unresolved".
func (l Location) Valid() bool {
	return l != Location{}
}

// Tags is an unordered key/value bag; duplicate keys are not modeled, mirroring
// OSM's own tag semantics.
type Tags map[string]string

// Meta carries the OSM changeset metadata every entity copy into the stash
// preserves, since the Area Assembler must copy it onto emitted areas.
type Meta struct {
	Version   int32
	Changeset int64
	Timestamp int64
	Visible   bool
	UID       int64
	User      string
}

// Node is a single coordinate with tags.
type Node struct {
	ID       int64
	Location Location
	Tags     Tags
	Meta     Meta
}

// NodeRef is one element of a Way's node list. Ref is always the OSM node
// id; Location is populated by an external "locations on ways" pass
// (osmio.LocationIndex) before a way reaches the second pass handler.
type NodeRef struct {
	Ref      int64
	Location Location
}

// Way is an ordered sequence of node references.
type Way struct {
	ID       int64
	NodeRefs []NodeRef
	Tags     Tags
	Meta     Meta
}

// Closed reports whether the way's first and last node refs coincide.
func (w *Way) Closed() bool {
	if len(w.NodeRefs) < 2 {
		return false
	}
	return w.NodeRefs[0].Ref == w.NodeRefs[len(w.NodeRefs)-1].Ref
}

// Member is one element of a Relation's member list. Ref == 0 is the
// reserved sentinel meaning "uninteresting, do not wait for this member";
// it is written by the manager when a policy's new_member hook declines it.
type Member struct {
	Kind Kind
	Ref  int64
	Role string
}

// Relation is an ordered sequence of typed member references.
type Relation struct {
	ID      int64
	Members []Member
	Tags    Tags
	Meta    Meta
}

// IsMultipolygon reports whether this relation's "type" tag marks it as
// the kind of relation the area assembler knows how to consume.
func (r *Relation) IsMultipolygon() bool {
	t, ok := r.Tags["type"]
	return ok && (t == "multipolygon" || t == "boundary")
}
