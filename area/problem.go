package area

import "github.com/osmcore/relareas/osmentity"

// ProblemKind enumerates the geometric defects the assembler can detect.
type ProblemKind uint8

const (
	// Intersection marks a proper crossing between two segments that do
	// not share an endpoint.
	Intersection ProblemKind = iota
	// RingNotClosed marks a proto-ring whose first and last points differ
	// once all segments have been placed.
	RingNotClosed
	// NoOuterRingForInner marks an inner (ccw) ring for which no outer
	// (cw) ring was found to contain it.
	NoOuterRingForInner
)

func (k ProblemKind) String() string {
	switch k {
	case Intersection:
		return "intersection"
	case RingNotClosed:
		return "ring_not_closed"
	case NoOuterRingForInner:
		return "no_outer_ring_for_inner"
	default:
		return "unknown"
	}
}

// Problem is one recorded geometric defect, available to callers that
// opted into problem collection.
type Problem struct {
	Kind     ProblemKind
	Location osmentity.Location
}
