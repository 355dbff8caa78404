package metrics

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/osmcore/relareas/relations"
)

func TestNewCollectorDefaultsShortInterval(t *testing.T) {
	c := NewCollector(0, zap.NewNop())
	if c.interval != 30*time.Second {
		t.Errorf("interval = %v, want the 30s fallback for a sub-second request", c.interval)
	}

	c2 := NewCollector(5*time.Second, zap.NewNop())
	if c2.interval != 5*time.Second {
		t.Errorf("interval = %v, want 5s to be preserved", c2.interval)
	}
}

func TestLastBeforeSampleIsNil(t *testing.T) {
	c := NewCollector(time.Minute, zap.NewNop())
	if got := c.Last(); got != nil {
		t.Errorf("Last() before any sample should be nil, got %+v", got)
	}
}

func TestSampleIncludesManagerUsage(t *testing.T) {
	c := NewCollector(time.Minute, zap.NewNop())
	c.SetUsageFunc(func() relations.MemoryUsage {
		return relations.MemoryUsage{StashBytes: 4096, RelationsDBBytes: 1024, MembersDBBytes: 2048}
	})
	c.sample()

	snap := c.Last()
	if snap == nil {
		t.Fatalf("Last() should be non-nil after sample")
	}
	if snap.ManagerUsage.StashBytes != 4096 {
		t.Errorf("ManagerUsage.StashBytes = %d, want 4096", snap.ManagerUsage.StashBytes)
	}
	if snap.ManagerUsage.Total() != 7168 {
		t.Errorf("ManagerUsage.Total() = %d, want 7168", snap.ManagerUsage.Total())
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, c := range cases {
		if got := FormatBytes(c.in); got != c.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(10.5 * 1024 * 1024); got != "10.5 MB/s" {
		t.Errorf("FormatRate = %q, want %q", got, "10.5 MB/s")
	}
}
