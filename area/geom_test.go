package area

import "testing"

func TestSegmentMinMax(t *testing.T) {
	s := Segment{A: loc(5, 10), B: loc(2, 3)}
	if got := s.minX(); got != 2 {
		t.Errorf("minX() = %d, want 2", got)
	}
	if got := s.maxX(); got != 5 {
		t.Errorf("maxX() = %d, want 5", got)
	}
	if got := s.minY(); got != 3 {
		t.Errorf("minY() = %d, want 3", got)
	}
	if got := s.maxY(); got != 10 {
		t.Errorf("maxY() = %d, want 10", got)
	}
}

func TestSegmentLeftPoint(t *testing.T) {
	s, ok := normalizeSegment(loc(5, 5), loc(0, 0))
	if !ok {
		t.Fatalf("expected normalization to succeed")
	}
	if got := s.leftPoint(); got != loc(0, 0) {
		t.Errorf("leftPoint() = %v, want the normalized A endpoint %v", got, loc(0, 0))
	}
}
