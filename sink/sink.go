// Package sink provides destinations for the areas an outbuf.OutputBuffer
// flushes: a PostGIS table loaded via bulk COPY, and a plain WKT text
// writer for debugging and tests.
package sink

import "github.com/osmcore/relareas/area"

// Sink accepts flushed batches of areas for storage or export.
type Sink interface {
	WriteAreas(areas []area.Area) error
	Close() error
}
