package monitor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Source reads raw counters from the operating system. Disk, network and
// per-process I/O values are cumulative; the Sampler derives rates.
type Source interface {
	CPU(ctx context.Context) (CPUMetrics, error)
	Memory(ctx context.Context) (MemoryMetrics, error)
	DiskCounters(ctx context.Context) (IOCounters, error)
	NetCounters(ctx context.Context) ([]InterfaceCounters, error)
	System(ctx context.Context) (SystemInfo, error)
	Processes(ctx context.Context) ([]ProcessCounters, error)
}

// HostSource is the Source for the local machine, backed by gopsutil.
type HostSource struct {
	mu sync.Mutex
	// procs keeps *process.Process values alive between ticks so that
	// Percent(0) reports CPU usage since the previous call.
	procs    map[int32]*process.Process
	hostname string
}

// NewHostSource creates a Source for the local machine.
func NewHostSource() *HostSource {
	return &HostSource{
		procs: make(map[int32]*process.Process),
	}
}

// CPU returns overall and per-core utilization since the previous call.
func (h *HostSource) CPU(ctx context.Context) (CPUMetrics, error) {
	var m CPUMetrics

	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return m, err
	}
	if len(total) > 0 {
		m.Percent = total[0]
	}

	// Per-core and load are extras; the overall percentage is enough to render.
	if perCore, err := cpu.PercentWithContext(ctx, 0, true); err == nil {
		m.PerCore = perCore
		m.Cores = len(perCore)
	}
	if m.Cores == 0 {
		if n, err := cpu.CountsWithContext(ctx, true); err == nil {
			m.Cores = n
		}
	}
	if avg, err := load.AvgWithContext(ctx); err == nil && avg != nil {
		m.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
		m.HasLoad = true
	}

	return m, nil
}

// Memory returns physical memory and swap usage.
func (h *HostSource) Memory(ctx context.Context) (MemoryMetrics, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryMetrics{}, err
	}

	m := MemoryMetrics{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		UsedPercent:    vm.UsedPercent,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		m.SwapTotalBytes = swap.Total
		m.SwapUsedBytes = swap.Used
	}
	return m, nil
}

// DiskCounters returns cumulative bytes read and written across whole disks.
func (h *HostSource) DiskCounters(ctx context.Context) (IOCounters, error) {
	stats, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return IOCounters{}, err
	}
	// Containers often expose no block devices; zero would read as idle
	if len(stats) == 0 {
		return IOCounters{}, errors.Wrap(fmt.Errorf("the OS reported no block devices"), "disk metrics unavailable")
	}

	counters := make(map[string]IOCounters, len(stats))
	for name, s := range stats {
		counters[name] = IOCounters{ReadBytes: s.ReadBytes, WriteBytes: s.WriteBytes}
	}
	return sumWholeDisks(counters), nil
}

// NetCounters returns cumulative bytes per network interface.
func (h *HostSource) NetCounters(ctx context.Context) ([]InterfaceCounters, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	ifaces := make([]InterfaceCounters, 0, len(stats))
	for _, s := range stats {
		ifaces = append(ifaces, InterfaceCounters{
			Name:      s.Name,
			BytesSent: s.BytesSent,
			BytesRecv: s.BytesRecv,
		})
	}
	return ifaces, nil
}

// System returns hostname, uptime and boot time.
func (h *HostSource) System(ctx context.Context) (SystemInfo, error) {
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return SystemInfo{}, err
	}

	info := SystemInfo{
		Hostname: h.lookupHostname(ctx),
		Uptime:   time.Duration(uptime) * time.Second,
	}
	if boot, err := host.BootTimeWithContext(ctx); err == nil {
		info.BootTime = time.Unix(int64(boot), 0)
	}
	return info, nil
}

// lookupHostname resolves the hostname once and caches it.
func (h *HostSource) lookupHostname(ctx context.Context) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hostname != "" {
		return h.hostname
	}
	if hi, err := host.InfoWithContext(ctx); err == nil && hi.Hostname != "" {
		h.hostname = hi.Hostname
	} else if name, err := os.Hostname(); err == nil {
		h.hostname = name
	}
	return h.hostname
}

// Processes returns one entry per live process. Processes that vanish or
// refuse to report a name mid-scan are skipped; missing optional fields
// (memory, I/O, start time) are left zero.
func (h *HostSource) Processes(ctx context.Context) ([]ProcessCounters, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	alive := make(map[int32]struct{}, len(pids))
	result := make([]ProcessCounters, 0, len(pids))

	for _, pid := range pids {
		alive[pid] = struct{}{}

		p, ok := h.procs[pid]
		if !ok {
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				continue
			}
			h.procs[pid] = p
		}

		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}

		pc := ProcessCounters{
			PID:  pid,
			Name: name,
		}
		if pct, err := p.PercentWithContext(ctx, 0); err == nil {
			pc.CPUPercent = pct
		}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			pc.MemoryRSS = mi.RSS
		}
		if io, err := p.IOCountersWithContext(ctx); err == nil && io != nil {
			pc.ReadBytes = io.ReadBytes
			pc.WriteBytes = io.WriteBytes
			pc.IOAvailable = true
		}
		if ms, err := p.CreateTimeWithContext(ctx); err == nil && ms > 0 {
			pc.CreateTime = time.UnixMilli(ms)
		}

		result = append(result, pc)
	}

	// Forget processes that have exited
	for pid := range h.procs {
		if _, ok := alive[pid]; !ok {
			delete(h.procs, pid)
		}
	}

	return result, nil
}

// sumWholeDisks adds up disk counters, skipping partitions whose parent
// device is also listed (sda1 next to sda, nvme0n1p2 next to nvme0n1) so
// the same bytes are not counted twice.
func sumWholeDisks(stats map[string]IOCounters) IOCounters {
	var total IOCounters
	for name, c := range stats {
		if isPartition(name, stats) {
			continue
		}
		total.ReadBytes += c.ReadBytes
		total.WriteBytes += c.WriteBytes
	}
	return total
}

// isPartition reports whether name is a partition of another listed device.
// Sibling devices that only share a prefix (loop1 and loop10, dm-1 and dm-12)
// are not partitions of each other.
func isPartition(name string, stats map[string]IOCounters) bool {
	for other := range stats {
		if other == "" || other == name || !strings.HasPrefix(name, other) {
			continue
		}
		if isPartitionSuffix(other, name[len(other):]) {
			return true
		}
	}
	return false
}

// isPartitionSuffix matches the partition naming schemes: digits after a
// parent ending in a letter (sda1), or "p" or "s" plus digits after a parent
// ending in a digit (nvme0n1p2, mmcblk0p1, disk0s1).
func isPartitionSuffix(parent, suffix string) bool {
	if last := parent[len(parent)-1]; last >= '0' && last <= '9' {
		if !strings.HasPrefix(suffix, "p") && !strings.HasPrefix(suffix, "s") {
			return false
		}
		suffix = suffix[1:]
	}
	return isDigits(suffix)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
