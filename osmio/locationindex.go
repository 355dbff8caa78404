package osmio

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/osmcore/relareas/osmentity"
)

// entrySize is one node's stored coordinate pair: two int32s, fixed-point
// 1e-7 degree units.
const entrySize = 8

// LocationIndex is a dense, mmap-backed table from node id to coordinate.
// It is filled while streaming the node section and consulted to resolve
// each way's NodeRefs before the way reaches the assembler, which needs
// ways with coordinates already attached.
type LocationIndex struct {
	file *os.File
	data mmap.MMap
}

// BuildLocationIndex creates a new index file at path sized for node ids
// up to maxNodeID, ready for Put calls while the node section streams.
func BuildLocationIndex(path string, maxNodeID int64) (*LocationIndex, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("osmio: create location index: %w", err)
	}
	size := maxNodeID * entrySize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("osmio: size location index: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("osmio: mmap location index: %w", err)
	}
	return &LocationIndex{file: f, data: data}, nil
}

// OpenLocationIndex opens an existing index file read-only, for the
// second pass.
func OpenLocationIndex(path string) (*LocationIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osmio: open location index: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("osmio: mmap location index: %w", err)
	}
	return &LocationIndex{file: f, data: data}, nil
}

// Put records a node's fixed-point coordinates as the node section streams.
func (idx *LocationIndex) Put(nodeID int64, loc osmentity.Location) {
	off := nodeID * entrySize
	if off < 0 || off+entrySize > int64(len(idx.data)) {
		return
	}
	binary.LittleEndian.PutUint32(idx.data[off:], uint32(loc.X))
	binary.LittleEndian.PutUint32(idx.data[off+4:], uint32(loc.Y))
}

// Get retrieves a node's coordinates, as recorded by Put.
func (idx *LocationIndex) Get(nodeID int64) (osmentity.Location, bool) {
	off := nodeID * entrySize
	if off < 0 || off+entrySize > int64(len(idx.data)) {
		return osmentity.Location{}, false
	}
	x := int32(binary.LittleEndian.Uint32(idx.data[off:]))
	y := int32(binary.LittleEndian.Uint32(idx.data[off+4:]))
	if x == 0 && y == 0 {
		return osmentity.Location{}, false
	}
	return osmentity.Location{X: x, Y: y}, true
}

// ResolveWay fills in w.NodeRefs[i].Location for every node id the index
// has a coordinate for, satisfying the precondition the Area Assembler
// depends on before a Way is handed to the manager's second-pass handler.
func (idx *LocationIndex) ResolveWay(w *osmentity.Way) {
	for i := range w.NodeRefs {
		if loc, ok := idx.Get(w.NodeRefs[i].Ref); ok {
			w.NodeRefs[i].Location = loc
		}
	}
}

// Sync flushes pending writes to disk.
func (idx *LocationIndex) Sync() error {
	return idx.data.Flush()
}

// Close unmaps and closes the backing file.
func (idx *LocationIndex) Close() error {
	if err := idx.data.Unmap(); err != nil {
		idx.file.Close()
		return err
	}
	return idx.file.Close()
}
