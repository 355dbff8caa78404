// Package relations implements the two-pass relations manager: the driver
// coupling the item stash, relations DB, members DBs, and output buffer,
// and the completion dispatch that ties them together.
package relations

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/osmcore/relareas/memberdb"
	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/outbuf"
	"github.com/osmcore/relareas/reldb"
	"github.com/osmcore/relareas/stash"
)

// InterestedIn selects which entity kinds pass 2 routes to the manager.
type InterestedIn struct {
	Nodes     bool
	Ways      bool
	Relations bool
}

// Config holds the manager's recognized construction options. A nil
// Logger disables the manager's per-relation debug logging.
type Config struct {
	InterestedIn    InterestedIn
	OutputHighWater int
	Logger          *zap.Logger
}

// baseManager is the non-generic half of the manager: stash, the three
// kind-specific members DBs, the relations DB, and the output buffer.
// Kept separate from Manager[P] so MemoryUsage()/Buffer() stay reusable
// independent of the policy type parameter.
type baseManager struct {
	stash  *stash.Stash
	relDB  *reldb.DB
	nodes  *memberdb.DB[osmentity.Node]
	ways   *memberdb.DB[osmentity.Way]
	rels   *memberdb.DB[osmentity.Relation]
	output *outbuf.OutputBuffer
	log    *zap.Logger
	cfg    Config
}

func newBaseManager(cfg Config) baseManager {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := stash.New()
	return baseManager{
		stash:  s,
		relDB:  reldb.New(s),
		nodes:  memberdb.New[osmentity.Node](),
		ways:   memberdb.New[osmentity.Way](),
		rels:   memberdb.New[osmentity.Relation](),
		output: outbuf.New(cfg.OutputHighWater),
		log:    log,
		cfg:    cfg,
	}
}

// Stash exposes the manager's Item Stash.
func (b *baseManager) Stash() *stash.Stash { return b.stash }

// Buffer exposes the manager's Output Buffer.
func (b *baseManager) Buffer() *outbuf.OutputBuffer { return b.output }

// PrepareForLookup cascades to the three Members DBs between passes.
func (b *baseManager) PrepareForLookup() {
	b.nodes.PrepareForLookup()
	b.ways.PrepareForLookup()
	b.rels.PrepareForLookup()
}

// MemoryUsage reports the manager's memory telemetry record: relations DB
// bytes, the three members DBs' combined bytes, and the stash's bytes.
func (b *baseManager) MemoryUsage() MemoryUsage {
	return MemoryUsage{
		RelationsDBBytes: b.relDB.UsedMemory(),
		MembersDBBytes:   b.nodes.UsedMemory() + b.ways.UsedMemory() + b.rels.UsedMemory(),
		StashBytes:       b.stash.UsedMemory(),
	}
}

// Manager is the two-pass relations manager, generic over the Policy that
// specializes it. The area-specific manager is Manager[*MultipolygonPolicy].
type Manager[P Policy] struct {
	baseManager
	policy P
}

// NewManager constructs a Manager using policy for its three required
// hooks and nine observers.
func NewManager[P Policy](policy P, cfg Config) *Manager[P] {
	return &Manager[P]{baseManager: newBaseManager(cfg), policy: policy}
}

// Policy returns the manager's configured policy.
func (m *Manager[P]) Policy() P { return m.policy }

// HandleRelationFirstPass is the pass-1 handler: offers rel to
// policy.NewRelation and, on keep, registers it in the Relations DB and
// walks its members through policy.NewMember, tracking accepted members
// in the matching kind's Members DB and zeroing the ref of declined ones.
func (m *Manager[P]) HandleRelationFirstPass(rel osmentity.Relation) error {
	if !m.policy.NewRelation(&rel) {
		return nil
	}
	h, err := m.relDB.Add(rel)
	if err != nil {
		return fmt.Errorf("relations: keep relation %d: %w", rel.ID, err)
	}
	m.log.Debug("kept relation",
		zap.Int64("id", rel.ID),
		zap.Int("members", len(rel.Members)),
	)
	for n, member := range rel.Members {
		if !m.policy.NewMember(&rel, member, n) {
			h.SetMember(n, 0, 0)
			continue
		}
		switch member.Kind {
		case osmentity.KindNode:
			m.nodes.Track(h, member.Ref, n)
		case osmentity.KindWay:
			m.ways.Track(h, member.Ref, n)
		case osmentity.KindRelation:
			m.rels.Track(h, member.Ref, n)
		default:
			return fmt.Errorf("relations: relation %d member %d: illegal kind %v", rel.ID, n, member.Kind)
		}
	}
	return nil
}

// HandleNode is the pass-2 per-node hook.
func (m *Manager[P]) HandleNode(n osmentity.Node) error {
	if !m.cfg.InterestedIn.Nodes {
		return nil
	}
	m.policy.BeforeNode(&n)
	if !m.nodes.Add(m.stash, n.ID, n, m.onComplete) {
		m.policy.NodeNotInAnyRelation(&n)
	}
	m.policy.AfterNode(&n)
	m.output.PossiblyFlush()
	return nil
}

// HandleWay is the pass-2 per-way hook.
func (m *Manager[P]) HandleWay(w osmentity.Way) error {
	if !m.cfg.InterestedIn.Ways {
		return nil
	}
	m.policy.BeforeWay(&w)
	if !m.ways.Add(m.stash, w.ID, w, m.onComplete) {
		m.policy.WayNotInAnyRelation(&w)
	}
	m.policy.AfterWay(&w)
	m.output.PossiblyFlush()
	return nil
}

// HandleRelation is the pass-2 per-relation hook (for relations that are
// themselves members of other kept relations, e.g. route supers).
func (m *Manager[P]) HandleRelation(r osmentity.Relation) error {
	if !m.cfg.InterestedIn.Relations {
		return nil
	}
	m.policy.BeforeRelation(&r)
	if !m.rels.Add(m.stash, r.ID, r, m.onComplete) {
		m.policy.RelationNotInAnyRelation(&r)
	}
	m.policy.AfterRelation(&r)
	m.output.PossiblyFlush()
	return nil
}

// onComplete runs exactly once per relation, the moment its outstanding
// count reaches zero: it invokes the policy's CompleteRelation, flushes
// the output buffer if due, clears any surviving member records left by
// duplicate references, and releases the relation's stash slot.
func (m *Manager[P]) onComplete(h reldb.Handle) {
	m.log.Debug("relation complete", zap.Int64("id", h.ID()))
	m.policy.CompleteRelation(h, m.stash, m.output)
	m.output.PossiblyFlush()

	rel := h.Relation()
	for _, member := range rel.Members {
		if member.Ref == 0 {
			continue
		}
		switch member.Kind {
		case osmentity.KindNode:
			m.nodes.Remove(member.Ref, rel.ID)
		case osmentity.KindWay:
			m.ways.Remove(member.Ref, rel.ID)
		case osmentity.KindRelation:
			m.rels.Remove(member.Ref, rel.ID)
		}
	}
	m.relDB.Remove(h)
}
