package relations

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestMemoryUsageTotal(t *testing.T) {
	mu := MemoryUsage{RelationsDBBytes: 100, MembersDBBytes: 200, StashBytes: 300}
	if got := mu.Total(); got != 600 {
		t.Errorf("Total() = %d, want 600", got)
	}
}

func TestPrintMemoryUsageFormat(t *testing.T) {
	mu := MemoryUsage{RelationsDBBytes: 1024, MembersDBBytes: 2048, StashBytes: 4096}
	var buf bytes.Buffer
	PrintMemoryUsage(&buf, mu)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines (3 components + total + divider), got %d: %q", len(lines), lines)
	}
	want := []string{
		fmt.Sprintf("  relations: %8d kB", 1),
		fmt.Sprintf("  members:   %8d kB", 2),
		fmt.Sprintf("  stash:     %8d kB", 4),
		fmt.Sprintf("  total:     %8d kB", 7),
		"  ======================",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}
