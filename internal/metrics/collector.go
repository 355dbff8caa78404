// Package metrics reports process and system resource usage while a
// two-pass assembly run is in flight: CPU, memory, disk throughput from
// gopsutil, plus the owning manager's own stash and database byte counts
// when a usage source is attached.
package metrics

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/osmcore/relareas/relations"
)

// Snapshot is one sampled view of the process and the machine it runs on.
type Snapshot struct {
	ProcCPUPercent float64
	SysCPUPercent  float64
	MemUsedBytes   uint64
	MemPercent     float64
	DiskReadBps    float64
	DiskWriteBps   float64
	ManagerUsage   relations.MemoryUsage
	Taken          time.Time
}

// UsageFunc supplies the manager-side memory telemetry sampled alongside
// each system snapshot. A nil UsageFunc leaves ManagerUsage zero.
type UsageFunc func() relations.MemoryUsage

// Collector samples a Snapshot on a fixed interval and logs it.
type Collector struct {
	interval time.Duration
	logger   *zap.Logger
	usage    UsageFunc
	proc     *process.Process

	lastDisk     map[string]disk.IOCountersStat
	lastDiskTime time.Time

	mu   sync.RWMutex
	last *Snapshot
}

const minInterval = time.Second

// NewCollector builds a collector sampling every interval; sub-second
// intervals fall back to 30s. A manager usage source is optional and is
// attached with SetUsageFunc.
func NewCollector(interval time.Duration, logger *zap.Logger) *Collector {
	if interval < minInterval {
		interval = 30 * time.Second
	}
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &Collector{interval: interval, logger: logger, proc: proc}
}

// SetUsageFunc attaches the manager-side telemetry source. Call before
// Start.
func (c *Collector) SetUsageFunc(fn UsageFunc) {
	c.usage = fn
}

// Start samples until ctx is cancelled. The first sample fires
// immediately so the disk-rate baseline exists before the first interval
// elapses.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sample()
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("metrics collection stopped")
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

// Last returns the most recent snapshot, or nil before the first sample.
func (c *Collector) Last() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Collector) sample() {
	snap := &Snapshot{Taken: time.Now()}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snap.SysCPUPercent = pcts[0]
	}
	if c.proc != nil {
		if pct, err := c.proc.Percent(0); err == nil {
			snap.ProcCPUPercent = pct
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemUsedBytes = vm.Used
		snap.MemPercent = vm.UsedPercent
	}
	snap.DiskReadBps, snap.DiskWriteBps = c.diskRates(snap.Taken)
	if c.usage != nil {
		snap.ManagerUsage = c.usage()
	}

	c.mu.Lock()
	c.last = snap
	c.mu.Unlock()

	fields := []zap.Field{
		zap.Float64("proc_cpu", snap.ProcCPUPercent),
		zap.Float64("sys_cpu", snap.SysCPUPercent),
		zap.Float64("mem_pct", snap.MemPercent),
		zap.String("mem_used", FormatBytes(snap.MemUsedBytes)),
		zap.String("disk_r", FormatRate(snap.DiskReadBps)),
		zap.String("disk_w", FormatRate(snap.DiskWriteBps)),
	}
	if c.usage != nil {
		fields = append(fields,
			zap.Int64("stash_kb", snap.ManagerUsage.StashBytes/1024),
			zap.Int64("relations_kb", snap.ManagerUsage.RelationsDBBytes/1024),
			zap.Int64("members_kb", snap.ManagerUsage.MembersDBBytes/1024),
		)
	}
	c.logger.Info("resource usage", fields...)
}

// diskRates returns aggregate read/write bytes per second since the last
// sample; the first call only establishes the baseline.
func (c *Collector) diskRates(now time.Time) (readBps, writeBps float64) {
	counters, err := disk.IOCounters()
	if err != nil {
		return 0, 0
	}
	defer func() {
		c.lastDisk = counters
		c.lastDiskTime = now
	}()
	if c.lastDisk == nil {
		return 0, 0
	}
	elapsed := now.Sub(c.lastDiskTime).Seconds()
	if elapsed < 0.1 {
		return 0, 0
	}
	var readDelta, writeDelta uint64
	for name, cur := range counters {
		prev, ok := c.lastDisk[name]
		if !ok {
			continue
		}
		// Skip wrapped counters rather than reporting a huge negative delta.
		if cur.ReadBytes >= prev.ReadBytes {
			readDelta += cur.ReadBytes - prev.ReadBytes
		}
		if cur.WriteBytes >= prev.WriteBytes {
			writeDelta += cur.WriteBytes - prev.WriteBytes
		}
	}
	return float64(readDelta) / elapsed, float64(writeDelta) / elapsed
}

// FormatBytes renders a byte count with a binary unit suffix, one decimal.
func FormatBytes(n uint64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)
	switch {
	case n >= gib:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatRate renders bytes per second as MB/s with one decimal.
func FormatRate(bps float64) string {
	return fmt.Sprintf("%.1f MB/s", bps/(1024*1024))
}
