package osmio

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/relations"
)

// FirstPassHandler is the minimal surface ReadRelations needs from a
// manager: the pass-1 relation handler plus the cascade into query phase.
type FirstPassHandler interface {
	HandleRelationFirstPass(osmentity.Relation) error
	PrepareForLookup()
}

// ProgressFunc is invoked after each entity the reader consumes, reporting
// bytes read against the file's total size.
type ProgressFunc func(offset, size int64)

// ReadRelations opens path as a relation-only first pass, feeding every
// manager's first-pass handler, then calls PrepareForLookup on each.
func ReadRelations(path string, managers ...FirstPassHandler) error {
	return ReadRelationsWithProgress(path, nil, managers...)
}

// ReadRelationsWithProgress is the progress-reporting variant of
// ReadRelations.
func ReadRelationsWithProgress(path string, progress ProgressFunc, managers ...FirstPassHandler) error {
	r, err := OpenPBF(path, 0)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		entity, kind, ok := r.Next()
		if !ok {
			break
		}
		if progress != nil {
			progress(r.Offset(), r.Size())
		}
		if kind != osmentity.KindRelation {
			continue
		}
		rel := entity.(osmentity.Relation)
		for _, m := range managers {
			if err := m.HandleRelationFirstPass(rel); err != nil {
				return fmt.Errorf("osmio: first pass: %w", err)
			}
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("osmio: first pass read: %w", err)
	}
	for _, m := range managers {
		m.PrepareForLookup()
	}
	return nil
}

// maxNodeID sizes the sparse location index file; OSM node ids are well
// under this bound today.
const maxNodeID = 10_000_000_000

// SecondPass drives a single manager's node→way→relation second pass
// handler over path, in canonical id order. It builds the node location
// index from the node section of the same stream before any way is seen
// (OSM PBF files always group all nodes before any way, so no separate
// pre-pass is needed), then resolves each way's NodeRefs before handing
// it to handler.HandleWay.
func SecondPass(pbfPath, locIndexPath string, handler relations.SecondPassHandler, progress ProgressFunc) error {
	locIdx, err := BuildLocationIndex(locIndexPath, maxNodeID)
	if err != nil {
		return err
	}
	defer func() {
		locIdx.Close()
		os.Remove(locIndexPath)
	}()

	r, err := OpenPBF(pbfPath, 0)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		entity, kind, ok := r.Next()
		if !ok {
			break
		}
		switch kind {
		case osmentity.KindNode:
			n := entity.(osmentity.Node)
			locIdx.Put(n.ID, n.Location)
			if err := handler.HandleNode(n); err != nil {
				return fmt.Errorf("osmio: second pass node %d: %w", n.ID, err)
			}
		case osmentity.KindWay:
			w := entity.(osmentity.Way)
			locIdx.ResolveWay(&w)
			if err := handler.HandleWay(w); err != nil {
				return fmt.Errorf("osmio: second pass way %d: %w", w.ID, err)
			}
		case osmentity.KindRelation:
			rel := entity.(osmentity.Relation)
			if err := handler.HandleRelation(rel); err != nil {
				return fmt.Errorf("osmio: second pass relation %d: %w", rel.ID, err)
			}
		}
		if progress != nil {
			progress(r.Offset(), r.Size())
		}
	}
	return r.Err()
}

// Job describes one manager's complete run over one input file: first
// pass, then second pass via handler (typically a
// *relations.OrderCheckedHandler wrapping the same manager).
type Job struct {
	PBFPath      string
	LocIndexPath string
	Managers     []FirstPassHandler
	Handler      relations.SecondPassHandler
	Progress     ProgressFunc
}

// RunDisjoint runs each Job's two-pass sequence concurrently, one
// goroutine per job. Every Job owns an independent manager and location
// index file, so nothing is shared across goroutines.
func RunDisjoint(jobs []Job) error {
	var g errgroup.Group
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ReadRelationsWithProgress(job.PBFPath, job.Progress, job.Managers...); err != nil {
				return err
			}
			return SecondPass(job.PBFPath, job.LocIndexPath, job.Handler, job.Progress)
		})
	}
	return g.Wait()
}
