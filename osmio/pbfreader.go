// Package osmio provides the input side of the pipeline: a streaming PBF
// entity reader, the node location index used to resolve way geometry,
// and the ReadRelations/SecondPass driver entrypoints. Backed by
// github.com/paulmach/osm/osmpbf and github.com/edsrzf/mmap-go.
package osmio

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/osmcore/relareas/osmentity"
)

// countingReader tracks bytes consumed so PBFReader.Offset() can report
// progress without the osmpbf scanner exposing one directly.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// PBFReader is a lazy, finite, non-restartable sequence of OSM entities,
// with Offset()/Size() for progress.
type PBFReader struct {
	f       *os.File
	cr      *countingReader
	scanner *osmpbf.Scanner
	size    int64
}

// OpenPBF opens path for streaming, decoding with numWorkers parallel
// decode goroutines (runtime.NumCPU() if numWorkers <= 0).
func OpenPBF(path string, numWorkers int) (*PBFReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("osmio: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("osmio: stat %s: %w", path, err)
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	cr := &countingReader{r: f}
	scanner := osmpbf.New(context.Background(), cr, numWorkers)
	return &PBFReader{f: f, cr: cr, scanner: scanner, size: info.Size()}, nil
}

// Offset reports bytes consumed so far.
func (r *PBFReader) Offset() int64 { return r.cr.n }

// Size reports the total input size in bytes.
func (r *PBFReader) Size() int64 { return r.size }

// Next advances to the next entity, converting it to this module's
// osmentity types. ok is false once the stream is exhausted; callers must
// check Err() afterwards to distinguish clean EOF from a read failure.
func (r *PBFReader) Next() (entity any, kind osmentity.Kind, ok bool) {
	for r.scanner.Scan() {
		switch v := r.scanner.Object().(type) {
		case *osm.Node:
			return convertNode(v), osmentity.KindNode, true
		case *osm.Way:
			return convertWay(v), osmentity.KindWay, true
		case *osm.Relation:
			return convertRelation(v), osmentity.KindRelation, true
		}
	}
	return nil, 0, false
}

// Err reports any error the scanner encountered, EOF excluded.
func (r *PBFReader) Err() error {
	if err := r.scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Close releases the scanner and underlying file.
func (r *PBFReader) Close() error {
	if err := r.scanner.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

const fixedPointScale = 1e7

func scaleCoord(v float64) int32 {
	return int32(v * fixedPointScale)
}

func convertTags(t osm.Tags) osmentity.Tags {
	if len(t) == 0 {
		return nil
	}
	out := make(osmentity.Tags, len(t))
	for _, kv := range t {
		out[kv.Key] = kv.Value
	}
	return out
}

func convertNode(n *osm.Node) osmentity.Node {
	return osmentity.Node{
		ID: int64(n.ID),
		Location: osmentity.Location{
			X: scaleCoord(n.Lon),
			Y: scaleCoord(n.Lat),
		},
		Tags: convertTags(n.Tags),
		Meta: osmentity.Meta{
			Version:   int32(n.Version),
			Changeset: int64(n.ChangesetID),
			Visible:   n.Visible,
			UID:       int64(n.UserID),
			User:      n.User,
			Timestamp: n.Timestamp.Unix(),
		},
	}
}

func convertWay(w *osm.Way) osmentity.Way {
	refs := make([]osmentity.NodeRef, len(w.Nodes))
	for i, wn := range w.Nodes {
		refs[i] = osmentity.NodeRef{Ref: int64(wn.ID)}
	}
	return osmentity.Way{
		ID:       int64(w.ID),
		NodeRefs: refs,
		Tags:     convertTags(w.Tags),
		Meta: osmentity.Meta{
			Version:   int32(w.Version),
			Changeset: int64(w.ChangesetID),
			Visible:   w.Visible,
			UID:       int64(w.UserID),
			User:      w.User,
			Timestamp: w.Timestamp.Unix(),
		},
	}
}

func convertRelation(r *osm.Relation) osmentity.Relation {
	members := make([]osmentity.Member, len(r.Members))
	for i, m := range r.Members {
		members[i] = osmentity.Member{
			Kind: convertMemberKind(m.Type),
			Ref:  m.Ref,
			Role: m.Role,
		}
	}
	return osmentity.Relation{
		ID:      int64(r.ID),
		Members: members,
		Tags:    convertTags(r.Tags),
		Meta: osmentity.Meta{
			Version:   int32(r.Version),
			Changeset: int64(r.ChangesetID),
			Visible:   r.Visible,
			UID:       int64(r.UserID),
			User:      r.User,
			Timestamp: r.Timestamp.Unix(),
		},
	}
}

func convertMemberKind(t osm.Type) osmentity.Kind {
	switch t {
	case osm.TypeNode:
		return osmentity.KindNode
	case osm.TypeWay:
		return osmentity.KindWay
	default:
		return osmentity.KindRelation
	}
}
