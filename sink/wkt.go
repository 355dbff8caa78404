package sink

import (
	"bufio"
	"fmt"
	"os"

	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/osmcore/relareas/area"
)

// WKTSink writes assembled areas as plain text, one "osm_id\tWKT\n" line
// per area. The simple file-output destination alongside PostgresSink,
// useful for debugging and tests.
type WKTSink struct {
	f *os.File
	w *bufio.Writer
}

// NewWKTSink opens path for writing, truncating any existing content.
func NewWKTSink(path string) (*WKTSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", path, err)
	}
	return &WKTSink{f: f, w: bufio.NewWriter(f)}, nil
}

// WriteAreas appends one line per area; invalid areas are written with an
// empty geometry field and their problems instead.
func (s *WKTSink) WriteAreas(areas []area.Area) error {
	for _, a := range areas {
		if !a.Valid {
			if _, err := fmt.Fprintf(s.w, "%d\t\t%v\n", a.ID, a.Problems); err != nil {
				return err
			}
			continue
		}
		text, err := wkt.Marshal(a.MultiPolygon())
		if err != nil {
			return fmt.Errorf("sink: encode area %d: %w", a.ID, err)
		}
		if _, err := fmt.Fprintf(s.w, "%d\t%s\n", a.ID, text); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered output and closes the file.
func (s *WKTSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
