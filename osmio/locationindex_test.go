package osmio

import (
	"path/filepath"
	"testing"

	"github.com/osmcore/relareas/osmentity"
)

func TestLocationIndexPutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locs.bin")
	idx, err := BuildLocationIndex(path, 1000)
	if err != nil {
		t.Fatalf("BuildLocationIndex: %v", err)
	}
	defer idx.Close()

	idx.Put(42, osmentity.Location{X: 123, Y: -456})
	loc, ok := idx.Get(42)
	if !ok {
		t.Fatalf("Get(42) reported not found after Put")
	}
	if loc.X != 123 || loc.Y != -456 {
		t.Errorf("Get(42) = %v, want {123 -456}", loc)
	}
}

func TestLocationIndexGetMissingIsFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locs.bin")
	idx, err := BuildLocationIndex(path, 1000)
	if err != nil {
		t.Fatalf("BuildLocationIndex: %v", err)
	}
	defer idx.Close()

	if _, ok := idx.Get(7); ok {
		t.Errorf("Get on a node id never Put should report not found")
	}
}

func TestLocationIndexOutOfRangeIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locs.bin")
	idx, err := BuildLocationIndex(path, 10)
	if err != nil {
		t.Fatalf("BuildLocationIndex: %v", err)
	}
	defer idx.Close()

	idx.Put(-1, osmentity.Location{X: 1, Y: 1})
	idx.Put(1000000, osmentity.Location{X: 1, Y: 1})
	if _, ok := idx.Get(-1); ok {
		t.Errorf("Get(-1) should report not found, never written")
	}
	if _, ok := idx.Get(1000000); ok {
		t.Errorf("Get beyond the sized range should report not found")
	}
}

func TestLocationIndexResolveWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locs.bin")
	idx, err := BuildLocationIndex(path, 1000)
	if err != nil {
		t.Fatalf("BuildLocationIndex: %v", err)
	}
	defer idx.Close()

	idx.Put(1, osmentity.Location{X: 10, Y: 20})
	idx.Put(2, osmentity.Location{X: 30, Y: 40})

	w := osmentity.Way{ID: 100, NodeRefs: []osmentity.NodeRef{{Ref: 1}, {Ref: 2}, {Ref: 3}}}
	idx.ResolveWay(&w)

	if w.NodeRefs[0].Location != (osmentity.Location{X: 10, Y: 20}) {
		t.Errorf("NodeRefs[0].Location = %v, want {10 20}", w.NodeRefs[0].Location)
	}
	if w.NodeRefs[1].Location != (osmentity.Location{X: 30, Y: 40}) {
		t.Errorf("NodeRefs[1].Location = %v, want {30 40}", w.NodeRefs[1].Location)
	}
	if w.NodeRefs[2].Location.Valid() {
		t.Errorf("NodeRefs[2] was never indexed and should stay unresolved")
	}
}

func TestOpenLocationIndexReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locs.bin")
	idx, err := BuildLocationIndex(path, 1000)
	if err != nil {
		t.Fatalf("BuildLocationIndex: %v", err)
	}
	idx.Put(5, osmentity.Location{X: 1, Y: 2})
	if err := idx.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ro, err := OpenLocationIndex(path)
	if err != nil {
		t.Fatalf("OpenLocationIndex: %v", err)
	}
	defer ro.Close()

	loc, ok := ro.Get(5)
	if !ok || loc.X != 1 || loc.Y != 2 {
		t.Errorf("Get(5) after reopening = %v, %v, want {1 2}, true", loc, ok)
	}
}
