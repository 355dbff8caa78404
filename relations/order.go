package relations

import (
	"fmt"

	"github.com/osmcore/relareas/osmentity"
)

// SecondPassHandler is the minimal surface order-checking wraps: one
// handler method per entity kind. *Manager[P] satisfies this for any
// Policy P.
type SecondPassHandler interface {
	HandleNode(osmentity.Node) error
	HandleWay(osmentity.Way) error
	HandleRelation(osmentity.Relation) error
}

// OrderCheckedHandler wraps a SecondPassHandler with the pass-2 ordering
// invariant: nodes, then ways, then relations, each kind strictly
// ascending by id. A violation is a fatal ordering_violation error.
type OrderCheckedHandler struct {
	inner SecondPassHandler

	lastKind osmentity.Kind
	haveLast bool
	lastID   int64
}

// NewOrderCheckedHandler wraps inner with order enforcement.
func NewOrderCheckedHandler(inner SecondPassHandler) *OrderCheckedHandler {
	return &OrderCheckedHandler{inner: inner}
}

func (o *OrderCheckedHandler) check(kind osmentity.Kind, id int64) error {
	if o.haveLast {
		if kind < o.lastKind {
			return fmt.Errorf("relations: ordering_violation: %s after %s", kind, o.lastKind)
		}
		if kind == o.lastKind && id <= o.lastID {
			return fmt.Errorf("relations: ordering_violation: %s id %d did not strictly increase after %d", kind, id, o.lastID)
		}
	}
	o.lastKind = kind
	o.lastID = id
	o.haveLast = true
	return nil
}

func (o *OrderCheckedHandler) HandleNode(n osmentity.Node) error {
	if err := o.check(osmentity.KindNode, n.ID); err != nil {
		return err
	}
	return o.inner.HandleNode(n)
}

func (o *OrderCheckedHandler) HandleWay(w osmentity.Way) error {
	if err := o.check(osmentity.KindWay, w.ID); err != nil {
		return err
	}
	return o.inner.HandleWay(w)
}

func (o *OrderCheckedHandler) HandleRelation(r osmentity.Relation) error {
	if err := o.check(osmentity.KindRelation, r.ID); err != nil {
		return err
	}
	return o.inner.HandleRelation(r)
}
