package reldb

import (
	"testing"

	"github.com/osmcore/relareas/osmentity"
	"github.com/osmcore/relareas/stash"
)

func TestAddAndID(t *testing.T) {
	s := stash.New()
	db := New(s)
	h, err := db.Add(osmentity.Relation{ID: 42, Members: []osmentity.Member{{Kind: osmentity.KindWay, Ref: 10}}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !h.Valid() {
		t.Fatalf("Add returned an invalid handle")
	}
	if h.ID() != 42 {
		t.Errorf("ID() = %d, want 42", h.ID())
	}
}

func TestTrackAndDecrement(t *testing.T) {
	s := stash.New()
	db := New(s)
	h, _ := db.Add(osmentity.Relation{ID: 1, Members: []osmentity.Member{{Kind: osmentity.KindWay, Ref: 10}, {Kind: osmentity.KindWay, Ref: 11}}})

	h.Track()
	h.Track()
	if db.Outstanding(h) != 2 {
		t.Fatalf("Outstanding = %d, want 2", db.Outstanding(h))
	}

	if done := h.Decrement(); done {
		t.Errorf("Decrement should not report done with one of two outstanding remaining")
	}
	if db.Outstanding(h) != 1 {
		t.Errorf("Outstanding after one decrement = %d, want 1", db.Outstanding(h))
	}
	if done := h.Decrement(); !done {
		t.Errorf("Decrement should report done when outstanding reaches zero")
	}
	if db.Outstanding(h) != 0 {
		t.Errorf("Outstanding after final decrement = %d, want 0", db.Outstanding(h))
	}
}

func TestSetMemberPatchesSlotAndMemberHandle(t *testing.T) {
	s := stash.New()
	db := New(s)
	h, _ := db.Add(osmentity.Relation{ID: 1, Members: []osmentity.Member{{Kind: osmentity.KindWay, Ref: 10}}})

	wh, err := s.Add(osmentity.Way{ID: 10})
	if err != nil {
		t.Fatalf("stash.Add: %v", err)
	}
	h.SetMember(0, 10, wh)

	if h.Relation().Members[0].Ref != 10 {
		t.Errorf("members[0].Ref after SetMember = %d, want 10", h.Relation().Members[0].Ref)
	}
	if h.MemberHandle(0) != wh {
		t.Errorf("MemberHandle(0) = %v, want %v", h.MemberHandle(0), wh)
	}
	if h.MemberHandle(1) != 0 {
		t.Errorf("MemberHandle for an unresolved position should be the zero handle")
	}
}

func TestRemoveReleasesStashSlotAndRecyclesIndex(t *testing.T) {
	s := stash.New()
	db := New(s)
	h1, _ := db.Add(osmentity.Relation{ID: 1})
	sh1 := h1.StashHandle()
	db.Remove(h1)

	// The stash slot for relation 1 should be gone.
	if _, ok := s.Get(sh1); ok {
		t.Errorf("stash slot for removed relation should no longer resolve")
	}

	h2, _ := db.Add(osmentity.Relation{ID: 2})
	if h2.ID() != 2 {
		t.Errorf("expected fresh entry for relation 2, got ID %d", h2.ID())
	}
}

func TestForEachSkipsRemovedEntries(t *testing.T) {
	s := stash.New()
	db := New(s)
	h1, _ := db.Add(osmentity.Relation{ID: 1})
	h2, _ := db.Add(osmentity.Relation{ID: 2})
	h2.Track()
	db.Remove(h1)

	var seen []int64
	db.ForEach(func(h Handle, outstanding int32) {
		seen = append(seen, h.ID())
		if outstanding != 1 {
			t.Errorf("outstanding for relation %d = %d, want 1", h.ID(), outstanding)
		}
	})
	if len(seen) != 1 || seen[0] != 2 {
		t.Errorf("ForEach visited %v, want only relation 2", seen)
	}
}

func TestUsedMemoryGrowsWithEntries(t *testing.T) {
	s := stash.New()
	db := New(s)
	base := db.UsedMemory()
	_, _ = db.Add(osmentity.Relation{ID: 1})
	if db.UsedMemory() <= base {
		t.Errorf("UsedMemory should grow after Add: base=%d, after=%d", base, db.UsedMemory())
	}
}
