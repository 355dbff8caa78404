// Package reldb implements the relations database: the indexed
// collection of relations a manager has decided to keep, each tracked by
// an outstanding-member counter that drives completion.
package reldb

import (
	"fmt"

	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/stash"
)

// Handle identifies one kept relation. It carries a weak reference back to
// the owning DB so it can mutate the relation's outstanding counter and
// member slots, without the DB needing to hand out raw pointers into its
// internal table. The entry and its stash slot are released with DB.Remove.
type Handle struct {
	db    *DB
	index uint32
}

// Valid reports whether h refers to a live entry.
func (h Handle) Valid() bool {
	return h.db != nil && int(h.index) < len(h.db.entries) && h.db.entries[h.index].stashHandle != 0
}

// StashHandle returns the underlying stash handle for the kept relation.
func (h Handle) StashHandle() stash.Handle {
	return h.db.entries[h.index].stashHandle
}

// Decrement reduces the entry's outstanding count by one and reports
// whether this call just brought it to zero, the signal a members DB
// uses to invoke the caller-supplied completion callback exactly once.
func (h Handle) Decrement() bool {
	return h.db.decrement(h.index)
}

// Track increments h's outstanding counter by one. Called by a Members DB
// once per accepted member during pass 1.
func (h Handle) Track() {
	h.db.track(h.index)
}

// SetMember patches members[position] of the relation held at h to carry
// resolved's stash handle in place of its ref-only stub.
func (h Handle) SetMember(position int, resolvedRef int64, resolved stash.Handle) {
	h.db.setMember(h.index, position, resolvedRef, resolved)
}

// ID returns the relation id of the entry h refers to.
func (h Handle) ID() int64 {
	return h.db.entries[h.index].relation.ID
}

// Members returns the current (possibly partially resolved) member list of
// the relation h refers to.
func (h Handle) Members() []osmentity.Member {
	return h.db.entries[h.index].relation.Members
}

// MemberHandle returns the stash handle a given member position resolved
// to, or the zero Handle if that position has not been satisfied yet.
func (h Handle) MemberHandle(position int) stash.Handle {
	hs := h.db.entries[h.index].memberHandles
	if position < 0 || position >= len(hs) {
		return 0
	}
	return hs[position]
}

// Relation returns the authoritative, possibly partially-resolved copy of
// the relation h refers to. This is the DB's own mutable bookkeeping copy,
// not a re-fetch through the stash, since member slots are patched here as
// they resolve.
func (h Handle) Relation() *osmentity.Relation {
	return &h.db.entries[h.index].relation
}

type entry struct {
	stashHandle   stash.Handle
	outstanding   int32
	relation      osmentity.Relation
	memberHandles []stash.Handle
}

// DB is the Relations Database.
type DB struct {
	s       *stash.Stash
	entries []entry
	free    []uint32
}

// New creates an empty Relations Database backed by s.
func New(s *stash.Stash) *DB {
	return &DB{s: s}
}

// Add copies rel into the stash, allocates a fresh entry with
// outstanding = 0 (the manager increments it per tracked member as it
// walks the relation's member list), and returns a handle.
func (db *DB) Add(rel osmentity.Relation) (Handle, error) {
	sh, err := db.s.Add(rel)
	if err != nil {
		return Handle{}, fmt.Errorf("reldb: stash relation %d: %w", rel.ID, err)
	}
	e := entry{
		stashHandle:   sh,
		relation:      rel,
		memberHandles: make([]stash.Handle, len(rel.Members)),
	}
	var idx uint32
	if n := len(db.free); n > 0 {
		idx = db.free[n-1]
		db.free = db.free[:n-1]
		db.entries[idx] = e
	} else {
		idx = uint32(len(db.entries))
		db.entries = append(db.entries, e)
	}
	return Handle{db: db, index: idx}, nil
}

func (db *DB) track(idx uint32) {
	db.entries[idx].outstanding++
}

func (db *DB) setMember(idx uint32, position int, resolvedRef int64, resolved stash.Handle) {
	e := &db.entries[idx]
	if position < 0 || position >= len(e.relation.Members) {
		return
	}
	e.relation.Members[position].Ref = resolvedRef
	e.memberHandles[position] = resolved
}

func (db *DB) decrement(idx uint32) bool {
	e := &db.entries[idx]
	if e.outstanding <= 0 {
		return false
	}
	e.outstanding--
	return e.outstanding == 0
}

// Outstanding reports h's current outstanding-member count.
func (db *DB) Outstanding(h Handle) int32 {
	return db.entries[h.index].outstanding
}

// Remove releases h's stash slot plus every member slot it resolved.
// Called by the manager once a completed relation's completion callback
// and member cleanup have both run.
func (db *DB) Remove(h Handle) {
	e := &db.entries[h.index]
	for _, mh := range e.memberHandles {
		if mh != 0 {
			db.s.Remove(mh)
		}
	}
	db.s.Remove(e.stashHandle)
	db.entries[h.index] = entry{}
	db.free = append(db.free, h.index)
}

// ForEach visits every live entry, for debugging and tests. fn receives
// the entry's handle and current outstanding count.
func (db *DB) ForEach(fn func(h Handle, outstanding int32)) {
	for i := range db.entries {
		if db.entries[i].stashHandle == 0 {
			continue
		}
		fn(Handle{db: db, index: uint32(i)}, db.entries[i].outstanding)
	}
}

// UsedMemory reports the bytes this DB's own bookkeeping (excluding the
// shared stash) occupies, for the memory telemetry record.
func (db *DB) UsedMemory() int64 {
	const entrySize = 64 // approximate resident size of one entry{} slot
	return int64(len(db.entries)) * entrySize
}
