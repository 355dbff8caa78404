package relations

import (
	"go.uber.org/zap"

	"github.com/osmcore/relareas/area"
	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/outbuf"
	"github.com/osmcore/relareas/reldb"
	"github.com/osmcore/relareas/stash"
)

// MultipolygonPolicy is the area-specific manager specialization: it keeps
// only multipolygon/boundary relations, waits on their way members, and on
// completion runs the area assembler and appends the result to the output
// buffer.
type MultipolygonPolicy struct {
	NoopObservers

	assembler *area.Assembler
	// accept is an optional caller-supplied tag predicate;
	// internal/tagfilter provides one concrete implementation.
	accept func(osmentity.Tags) bool
	log    *zap.Logger
}

var _ Policy = (*MultipolygonPolicy)(nil)

// NewMultipolygonPolicy builds a policy that assembles areas with asm,
// keeping relations accept approves (a nil accept keeps every
// multipolygon/boundary relation).
func NewMultipolygonPolicy(asm *area.Assembler, accept func(osmentity.Tags) bool) *MultipolygonPolicy {
	return &MultipolygonPolicy{assembler: asm, accept: accept, log: zap.NewNop()}
}

// SetLogger routes the policy's invalid-geometry warnings to l.
func (p *MultipolygonPolicy) SetLogger(l *zap.Logger) {
	if l != nil {
		p.log = l
	}
}

// NewRelation keeps only multipolygon/boundary relations the predicate
// approves.
func (p *MultipolygonPolicy) NewRelation(rel *osmentity.Relation) bool {
	if !rel.IsMultipolygon() {
		return false
	}
	if p.accept != nil {
		return p.accept(rel.Tags)
	}
	return true
}

// NewMember tracks only way members; node and relation members of a
// multipolygon carry no geometry the assembler needs.
func (p *MultipolygonPolicy) NewMember(rel *osmentity.Relation, member osmentity.Member, position int) bool {
	return member.Kind == osmentity.KindWay && member.Ref != 0
}

// CompleteRelation gathers the relation's resolved way members from the
// stash and runs the Area Assembler, appending its result (valid or
// invalid) to the output buffer.
func (p *MultipolygonPolicy) CompleteRelation(h reldb.Handle, s *stash.Stash, out *outbuf.OutputBuffer) {
	rel := h.Relation()
	ways := make([]*osmentity.Way, 0, len(rel.Members))
	for i, member := range rel.Members {
		if member.Kind != osmentity.KindWay || member.Ref == 0 {
			continue
		}
		wh := h.MemberHandle(i)
		if wh == 0 {
			continue
		}
		v, ok := s.Get(wh)
		if !ok {
			continue
		}
		w, ok := v.(osmentity.Way)
		if !ok {
			continue
		}
		ways = append(ways, &w)
	}
	a := p.assembler.Assemble(rel, ways)
	if !a.Valid {
		p.log.Warn("invalid multipolygon geometry",
			zap.Int64("relation", rel.ID),
			zap.Int("problems", len(a.Problems)),
		)
	}
	out.Buffer().Append(a)
}
