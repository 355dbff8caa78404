// Package memberdb implements the pending members database: the pending
// member table mapping (kind, id) to the relations waiting for it, which
// drives completion during pass 2. One instantiation exists per entity
// kind (Node, Way, Relation); the generic type parameter keeps that
// distinction at the type level so a way can never satisfy a node record.
package memberdb

import (
	"sort"

	"github.com/osmcore/relareas/reldb"
	"github.com/osmcore/relareas/stash"
)

type record struct {
	memberID int64
	relation reldb.Handle
	position int
}

// DB is a Members Database for entity kind T.
type DB[T any] struct {
	records  []record
	prepared bool
	cursor   int
}

// New creates an empty Members Database.
func New[T any]() *DB[T] {
	return &DB[T]{}
}

// Track appends a pending-member record in the build phase (pass 1) and
// increments rel's outstanding counter. The same (memberID, rel, position)
// triple may be tracked more than once if a relation references the same
// member object repeatedly; each occurrence is satisfied independently.
func (db *DB[T]) Track(rel reldb.Handle, memberID int64, position int) {
	if db.prepared {
		panic("memberdb: Track called after PrepareForLookup")
	}
	db.records = append(db.records, record{memberID, rel, position})
	rel.Track()
}

// PrepareForLookup stable-sorts the pending records by member id, entering
// the query phase used by Add during pass 2. Idempotent once sorted.
func (db *DB[T]) PrepareForLookup() {
	sort.SliceStable(db.records, func(i, j int) bool {
		return db.records[i].memberID < db.records[j].memberID
	})
	db.prepared = true
	db.cursor = 0
}

// Add is called once per pass-2 entity of kind T, in ascending id order.
// If one or more pending records match entityID, entity is stashed once,
// every matching record patches its relation's member slot, decrements
// that relation's outstanding counter (firing onComplete when it reaches
// zero), and is removed. Add returns true iff at least one record
// matched. Work is amortized linear in (#records + #entities), since the
// cursor only moves forward.
func (db *DB[T]) Add(s *stash.Stash, entityID int64, entity T, onComplete func(reldb.Handle)) bool {
	for db.cursor < len(db.records) && db.records[db.cursor].memberID < entityID {
		db.cursor++
	}
	if db.cursor >= len(db.records) || db.records[db.cursor].memberID != entityID {
		return false
	}

	// Splice the matched records out before satisfying them: onComplete may
	// reenter this DB through Remove, so db.records must already be
	// consistent when the first callback fires.
	end := db.cursor
	for end < len(db.records) && db.records[end].memberID == entityID {
		end++
	}
	matched := make([]record, end-db.cursor)
	copy(matched, db.records[db.cursor:end])
	db.records = append(db.records[:db.cursor], db.records[end:]...)

	h, err := s.Add(entity)
	if err != nil {
		return false
	}
	for _, rec := range matched {
		rec.relation.SetMember(rec.position, entityID, h)
		s.AddRef(h) // one ref per satisfied record sharing this entity
		if rec.relation.Decrement() && onComplete != nil {
			onComplete(rec.relation)
		}
	}
	// Release the reference Add itself took, so the refcount equals exactly
	// the number of member slots now pointing at this entity.
	s.Remove(h)
	return true
}

// Remove deletes any surviving record matching both memberID and relationID,
// used by the manager after a relation completes to discard any orphaned
// record left by a late-arriving or duplicate member reference.
func (db *DB[T]) Remove(memberID int64, relationID int64) {
	out := db.records[:0]
	cursor := db.cursor
	for i, r := range db.records {
		if r.memberID == memberID && r.relation.ID() == relationID {
			if i < db.cursor {
				cursor--
			}
			continue
		}
		out = append(out, r)
	}
	db.records = out
	db.cursor = cursor
}

// Len reports the number of pending records, for the used_memory estimate.
func (db *DB[T]) Len() int {
	return len(db.records)
}

// UsedMemory estimates the bytes this DB's own bookkeeping occupies.
func (db *DB[T]) UsedMemory() int64 {
	const recordSize = 32 // memberID + handle + position, roughly
	return int64(len(db.records)) * recordSize
}
