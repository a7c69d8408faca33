package monitor

import "time"

// Metric names a group of counters that can fail independently.
type Metric string

const (
	MetricCPU       Metric = "cpu"
	MetricMemory    Metric = "memory"
	MetricDisk      Metric = "disk"
	MetricNetwork   Metric = "network"
	MetricSystem    Metric = "system"
	MetricProcesses Metric = "processes"
)

// Sample is a point-in-time snapshot of the machine. It is never mutated
// after the Sampler returns it; the next tick produces a fresh Sample.
type Sample struct {
	Timestamp time.Time
	// Elapsed is the time since the previous sample, zero on the first one.
	Elapsed time.Duration

	CPU       CPUMetrics
	Memory    MemoryMetrics
	Disk      DiskRates
	Network   NetworkRates
	System    SystemInfo
	Processes []ProcessInfo

	// Unavailable records counters that could not be read this tick.
	Unavailable map[Metric]error
}

// Available reports whether metric m was read successfully.
func (s *Sample) Available(m Metric) bool {
	if s == nil {
		return false
	}
	_, bad := s.Unavailable[m]
	return !bad
}

// CPUMetrics contains CPU usage information.
type CPUMetrics struct {
	Percent float64
	PerCore []float64
	Cores   int
	LoadAvg [3]float64
	HasLoad bool
}

// MemoryMetrics contains memory usage information in bytes.
type MemoryMetrics struct {
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
	UsedPercent    float64
	SwapTotalBytes uint64
	SwapUsedBytes  uint64
}

// DiskRates is system-wide disk throughput since the previous sample.
type DiskRates struct {
	ReadPerSec  float64
	WritePerSec float64
	// Ready is false until two samples exist to diff.
	Ready bool
}

// NetworkRates is network throughput since the previous sample.
// Totals exclude loopback interfaces.
type NetworkRates struct {
	SentPerSec float64
	RecvPerSec float64
	Interfaces []InterfaceRate
	Ready      bool
}

// InterfaceRate is the throughput of a single network interface.
type InterfaceRate struct {
	Name       string
	SentPerSec float64
	RecvPerSec float64
	BytesSent  uint64
	BytesRecv  uint64
}

// Total returns combined send and receive throughput.
func (r InterfaceRate) Total() float64 {
	return r.SentPerSec + r.RecvPerSec
}

// SystemInfo contains general host information.
type SystemInfo struct {
	Hostname string
	Uptime   time.Duration
	BootTime time.Time
}

// ProcessInfo is one row of the process table.
type ProcessInfo struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemoryRSS  uint64

	// Disk throughput since the previous sample. Only meaningful when
	// IOAvailable is true; some platforms restrict per-process I/O counters.
	ReadPerSec  float64
	WritePerSec float64
	IOAvailable bool

	StartTime time.Time
	Uptime    time.Duration
}

// DiskPerSec returns combined read and write throughput.
func (p ProcessInfo) DiskPerSec() float64 {
	return p.ReadPerSec + p.WritePerSec
}

// IOCounters are cumulative byte counters as reported by the OS.
type IOCounters struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// InterfaceCounters are cumulative per-interface network byte counters.
type InterfaceCounters struct {
	Name      string
	BytesSent uint64
	BytesRecv uint64
}

// ProcessCounters is the raw per-process data a Source reports.
// I/O fields are cumulative; the Sampler turns them into rates.
type ProcessCounters struct {
	PID         int32
	Name        string
	CPUPercent  float64
	MemoryRSS   uint64
	ReadBytes   uint64
	WriteBytes  uint64
	IOAvailable bool
	CreateTime  time.Time
}
