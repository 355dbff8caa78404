package relations

import (
	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/outbuf"
	"github.com/osmcore/relareas/reldb"
	"github.com/osmcore/relareas/stash"
)

// Observers is the nine optional hooks a Policy may override; NoopObservers
// gives every embedder a default no-op implementation.
type Observers interface {
	BeforeNode(*osmentity.Node)
	AfterNode(*osmentity.Node)
	NodeNotInAnyRelation(*osmentity.Node)

	BeforeWay(*osmentity.Way)
	AfterWay(*osmentity.Way)
	WayNotInAnyRelation(*osmentity.Way)

	BeforeRelation(*osmentity.Relation)
	AfterRelation(*osmentity.Relation)
	RelationNotInAnyRelation(*osmentity.Relation)
}

// NoopObservers implements Observers with no-op bodies. Embed it in a
// concrete Policy to opt out of hooks you don't need.
type NoopObservers struct{}

func (NoopObservers) BeforeNode(*osmentity.Node)                   {}
func (NoopObservers) AfterNode(*osmentity.Node)                    {}
func (NoopObservers) NodeNotInAnyRelation(*osmentity.Node)         {}
func (NoopObservers) BeforeWay(*osmentity.Way)                     {}
func (NoopObservers) AfterWay(*osmentity.Way)                      {}
func (NoopObservers) WayNotInAnyRelation(*osmentity.Way)           {}
func (NoopObservers) BeforeRelation(*osmentity.Relation)           {}
func (NoopObservers) AfterRelation(*osmentity.Relation)            {}
func (NoopObservers) RelationNotInAnyRelation(*osmentity.Relation) {}

var _ Observers = NoopObservers{}

// Policy is the manager's required specialization surface: which
// relations to keep, which of their members to wait for, and what to do
// once a relation completes. A multipolygon specialization lives in
// multipolygon.go.
type Policy interface {
	// NewRelation decides whether rel should be kept at all.
	NewRelation(rel *osmentity.Relation) bool
	// NewMember decides, for a kept relation, whether member at position
	// should be tracked (true) or marked ignored (false).
	NewMember(rel *osmentity.Relation, member osmentity.Member, position int) bool
	// CompleteRelation runs once, the moment h's outstanding count reaches
	// zero. s and out give access to the owning manager's stash and
	// output buffer so the policy can resolve member handles and emit
	// whatever derived entity it produces.
	CompleteRelation(h reldb.Handle, s *stash.Stash, out *outbuf.OutputBuffer)

	Observers
}
