package relations

import (
	"fmt"
	"io"
)

// MemoryUsage is the manager's memory telemetry record: bytes attributed
// to the relations DB, the combined members DBs, and the stash.
type MemoryUsage struct {
	RelationsDBBytes int64
	MembersDBBytes   int64
	StashBytes       int64
}

// Total returns the sum of all three tracked components.
func (mu MemoryUsage) Total() int64 {
	return mu.RelationsDBBytes + mu.MembersDBBytes + mu.StashBytes
}

// PrintMemoryUsage formats mu in kilobytes, right-aligned in an 8-column
// field, with a trailing divider row.
func PrintMemoryUsage(w io.Writer, mu MemoryUsage) {
	fmt.Fprintf(w, "  relations: %8d kB\n", mu.RelationsDBBytes/1024)
	fmt.Fprintf(w, "  members:   %8d kB\n", mu.MembersDBBytes/1024)
	fmt.Fprintf(w, "  stash:     %8d kB\n", mu.StashBytes/1024)
	fmt.Fprintf(w, "  total:     %8d kB\n", mu.Total()/1024)
	fmt.Fprintln(w, "  ======================")
}
