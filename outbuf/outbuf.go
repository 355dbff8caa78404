// Package outbuf implements the output buffer: a bounded, append-only
// buffer for assembled entities that flushes wholesale to a user callback
// when full or on demand.
package outbuf

import "github.com/osmcore/relareas/area"

// Buffer holds Areas assembled since the last flush.
type Buffer struct {
	areas []area.Area
}

// Append adds a (valid or invalid) area to the buffer.
func (b *Buffer) Append(a area.Area) {
	b.areas = append(b.areas, a)
}

// Len reports how many areas are currently buffered.
func (b *Buffer) Len() int {
	return len(b.areas)
}

// Areas exposes the buffered areas for read access, e.g. by a callback.
func (b *Buffer) Areas() []area.Area {
	return b.areas
}

// OutputBuffer is a growable Buffer flushed by handoff to a registered
// callback. Handoff is by move: the buffer immediately owns a fresh empty
// backing store afterwards, so a callback retaining the slice it was
// given never observes future writes.
type OutputBuffer struct {
	buf       Buffer
	highWater int
	callback  func(Buffer)
}

// New creates an OutputBuffer that flushes automatically via
// PossiblyFlush once occupancy reaches highWater areas.
func New(highWater int) *OutputBuffer {
	return &OutputBuffer{highWater: highWater}
}

// SetCallback registers the destination for flushed buffers. There is no
// process-global callback; each OutputBuffer is configured independently
// through this method.
func (o *OutputBuffer) SetCallback(fn func(Buffer)) {
	o.callback = fn
}

// Buffer returns the live, mutable buffer for in-place appends.
func (o *OutputBuffer) Buffer() *Buffer {
	return &o.buf
}

// PossiblyFlush flushes iff occupancy has reached the configured
// high-water mark.
func (o *OutputBuffer) PossiblyFlush() {
	if o.buf.Len() >= o.highWater {
		o.Flush()
	}
}

// Flush hands the current buffer to the callback (if any) regardless of
// the high-water mark and resets to a fresh, empty backing store. Flushing
// an empty buffer is a no-op and does not invoke the callback.
func (o *OutputBuffer) Flush() {
	if o.buf.Len() == 0 {
		return
	}
	flushed := o.buf
	o.buf = Buffer{}
	if o.callback != nil {
		o.callback(flushed)
	}
}
