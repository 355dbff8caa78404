// Package stash implements the item stash: an arena-backed store that
// owns every buffered OSM entity copy during a two-pass run and hands out
// opaque, stable handles in place of pointers.
package stash

import (
	"bytes"
	"encoding/gob"
	"fmt"

	slab "github.com/couchbase/go-slab"
)

// Handle is an opaque, stable index into a Stash's handle table. It is
// independent of the entity's memory location, so growing the backing
// arena never invalidates a Handle held elsewhere. The zero Handle is
// never returned by Add and is used as an explicit "no handle" sentinel.
type Handle uint32

type slot struct {
	entity any
	buf    []byte // arena-owned; sized and refcounted, never read back
	refs   int32
}

// Stash is the owning arena for all entities buffered across a run. It is
// not safe for concurrent use from multiple goroutines; each manager and
// its stash belong to a single owning goroutine.
type Stash struct {
	arena *slab.Arena
	slots []slot
	free  []Handle
	used  int64
}

const (
	startChunkSize = 64
	slabClassSize  = 1 << 20 // 1 MiB growth step per slab class
	growthFactor   = 2.0
)

// New creates an empty Stash backed by a go-slab arena.
func New() *Stash {
	return &Stash{
		arena: slab.NewArena(startChunkSize, slabClassSize, growthFactor, nil),
		slots: make([]slot, 1, 64), // slots[0] is reserved; Handle 0 is invalid
	}
}

// Add copies entity into the stash and returns a stable handle to it.
// Insertion is O(1) amortized. entity must be gob-encodable (all of
// osmentity's types are plain structs of primitives and maps, so this
// holds for Node, Way, Relation, and area.Area).
func (s *Stash) Add(entity any) (Handle, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entity); err != nil {
		return 0, fmt.Errorf("stash: encode entity for sizing: %w", err)
	}
	size := buf.Len()
	arenaBuf := s.arena.Alloc(size)
	if arenaBuf == nil {
		return 0, fmt.Errorf("stash: arena allocation failed for %d bytes", size)
	}
	sl := slot{entity: entity, buf: arenaBuf, refs: 1}

	var h Handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[h] = sl
	} else {
		h = Handle(len(s.slots))
		s.slots = append(s.slots, sl)
	}
	s.used += int64(size)
	return h, nil
}

// Get dereferences handle to a read-only view of its entity. Lookups are
// O(1). The returned value must not be mutated by callers.
func (s *Stash) Get(h Handle) (any, bool) {
	if h == 0 || int(h) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h]
	if sl.buf == nil {
		return nil, false
	}
	return sl.entity, true
}

// AddRef increments handle's reference count. Used when the same stashed
// entity is referenced from more than one relation member slot.
func (s *Stash) AddRef(h Handle) {
	if h == 0 || int(h) >= len(s.slots) {
		return
	}
	sl := &s.slots[h]
	if sl.buf == nil {
		return
	}
	sl.refs++
	s.arena.AddRef(sl.buf)
}

// Remove decrements handle's reference count; when it reaches zero the
// slot is freed and its handle value is recycled for a future Add. Freed
// slots never change the meaning of handles still outstanding elsewhere.
func (s *Stash) Remove(h Handle) {
	if h == 0 || int(h) >= len(s.slots) {
		return
	}
	sl := &s.slots[h]
	if sl.buf == nil {
		return
	}
	sl.refs--
	if sl.refs > 0 {
		s.arena.DecRef(sl.buf)
		return
	}
	size := len(sl.buf)
	s.arena.DecRef(sl.buf)
	s.slots[h] = slot{}
	s.free = append(s.free, h)
	s.used -= int64(size)
}

// UsedMemory reports the number of bytes currently attributed to live
// slots, for the relations_manager_memory_usage telemetry record.
func (s *Stash) UsedMemory() int64 {
	return s.used
}

// Len reports the number of live (non-freed) slots, for diagnostics.
func (s *Stash) Len() int {
	return len(s.slots) - len(s.free) - 1
}
