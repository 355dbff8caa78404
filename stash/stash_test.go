package stash

import "testing"

func TestAddGetRoundTrip(t *testing.T) {
	s := New()
	h, err := s.Add("hello")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if h == 0 {
		t.Fatalf("Add returned the reserved zero handle")
	}
	got, ok := s.Get(h)
	if !ok {
		t.Fatalf("Get(%v) reported not found", h)
	}
	if got.(string) != "hello" {
		t.Errorf("Get(%v) = %v, want %q", h, got, "hello")
	}
}

func TestHandleStability(t *testing.T) {
	s := New()
	h1, _ := s.Add("a")
	h2, _ := s.Add("b")
	for i := 0; i < 1000; i++ {
		if _, err := s.Add(i); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	v1, ok := s.Get(h1)
	if !ok || v1.(string) != "a" {
		t.Errorf("h1 stale after growth: got %v, %v", v1, ok)
	}
	v2, ok := s.Get(h2)
	if !ok || v2.(string) != "b" {
		t.Errorf("h2 stale after growth: got %v, %v", v2, ok)
	}
}

func TestRemoveFreesSlotAndZeroHandleInvalid(t *testing.T) {
	s := New()
	if _, ok := s.Get(0); ok {
		t.Errorf("Get(0) should always report not found; handle 0 is reserved")
	}
	h, _ := s.Add("x")
	s.Remove(h)
	if _, ok := s.Get(h); ok {
		t.Errorf("Get after Remove should report not found")
	}
}

func TestRefcountKeepsEntityAliveUntilLastRemove(t *testing.T) {
	s := New()
	h, _ := s.Add("shared")
	s.AddRef(h)
	s.Remove(h) // refs: 2 -> 1
	if _, ok := s.Get(h); !ok {
		t.Fatalf("entity should still be live after one of two refs removed")
	}
	s.Remove(h) // refs: 1 -> 0
	if _, ok := s.Get(h); ok {
		t.Errorf("entity should be gone once refcount reaches zero")
	}
}

func TestHandleRecycling(t *testing.T) {
	s := New()
	h1, _ := s.Add("first")
	s.Remove(h1)
	h2, _ := s.Add("second")
	if h2 != h1 {
		t.Errorf("expected freed handle %v to be recycled, got %v", h1, h2)
	}
	got, ok := s.Get(h2)
	if !ok || got.(string) != "second" {
		t.Errorf("Get(%v) = %v, %v, want \"second\", true", h2, got, ok)
	}
}

func TestUsedMemoryTracksLiveSlots(t *testing.T) {
	s := New()
	if s.UsedMemory() != 0 {
		t.Fatalf("fresh stash should report zero used memory, got %d", s.UsedMemory())
	}
	h, _ := s.Add("some bytes")
	if s.UsedMemory() <= 0 {
		t.Errorf("expected positive used memory after Add, got %d", s.UsedMemory())
	}
	s.Remove(h)
	if s.UsedMemory() != 0 {
		t.Errorf("expected used memory to return to zero after Remove, got %d", s.UsedMemory())
	}
}

func TestLen(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Fatalf("fresh stash should have Len 0, got %d", s.Len())
	}
	h1, _ := s.Add(1)
	_, _ = s.Add(2)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	s.Remove(h1)
	if s.Len() != 1 {
		t.Errorf("Len after Remove = %d, want 1", s.Len())
	}
}
