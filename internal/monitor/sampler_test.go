package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a scriptable Source. Tests mutate its fields between calls
// to Sample.
type fakeSource struct {
	cpu   CPUMetrics
	mem   MemoryMetrics
	disk  IOCounters
	net   []InterfaceCounters
	sys   SystemInfo
	procs []ProcessCounters

	cpuErr, memErr, diskErr, netErr, sysErr, procErr error
}

func (f *fakeSource) CPU(context.Context) (CPUMetrics, error)       { return f.cpu, f.cpuErr }
func (f *fakeSource) Memory(context.Context) (MemoryMetrics, error) { return f.mem, f.memErr }
func (f *fakeSource) DiskCounters(context.Context) (IOCounters, error) {
	return f.disk, f.diskErr
}
func (f *fakeSource) NetCounters(context.Context) ([]InterfaceCounters, error) {
	return f.net, f.netErr
}
func (f *fakeSource) System(context.Context) (SystemInfo, error) { return f.sys, f.sysErr }
func (f *fakeSource) Processes(context.Context) ([]ProcessCounters, error) {
	return f.procs, f.procErr
}

// fakeClock returns a now func that advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	cur := start.Add(-step)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func newTestSampler(src *fakeSource, step time.Duration) *Sampler {
	s := NewSampler(src, logger.Noop())
	s.now = fakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), step)
	return s
}

func TestSampler_FirstSampleNotReady(t *testing.T) {
	src := &fakeSource{
		disk: IOCounters{ReadBytes: 5000, WriteBytes: 7000},
		net:  []InterfaceCounters{{Name: "eth0", BytesSent: 100, BytesRecv: 1000}},
	}
	s := newTestSampler(src, time.Second)

	sample := s.Sample(context.Background())

	assert.Zero(t, sample.Elapsed)
	assert.False(t, sample.Disk.Ready)
	assert.False(t, sample.Network.Ready)
	assert.Zero(t, sample.Disk.ReadPerSec)
	assert.Zero(t, sample.Disk.WritePerSec)
	assert.Zero(t, sample.Network.RecvPerSec)
	assert.Zero(t, sample.Network.SentPerSec)
	assert.Empty(t, sample.Unavailable)
}

func TestSampler_NetworkRate(t *testing.T) {
	src := &fakeSource{
		net: []InterfaceCounters{{Name: "eth0", BytesSent: 200, BytesRecv: 1000}},
	}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	src.net = []InterfaceCounters{{Name: "eth0", BytesSent: 400, BytesRecv: 1500}}
	sample := s.Sample(context.Background())

	require.True(t, sample.Network.Ready)
	assert.Equal(t, time.Second, sample.Elapsed)
	assert.InDelta(t, 500.0, sample.Network.RecvPerSec, 0.001)
	assert.InDelta(t, 200.0, sample.Network.SentPerSec, 0.001)
	require.Len(t, sample.Network.Interfaces, 1)
	assert.InDelta(t, 500.0, sample.Network.Interfaces[0].RecvPerSec, 0.001)
}

func TestSampler_RatesUseElapsedTime(t *testing.T) {
	src := &fakeSource{disk: IOCounters{ReadBytes: 0, WriteBytes: 0}}
	s := newTestSampler(src, 2*time.Second)

	s.Sample(context.Background())
	src.disk = IOCounters{ReadBytes: 4096, WriteBytes: 1024}
	sample := s.Sample(context.Background())

	require.True(t, sample.Disk.Ready)
	assert.InDelta(t, 2048.0, sample.Disk.ReadPerSec, 0.001)
	assert.InDelta(t, 512.0, sample.Disk.WritePerSec, 0.001)
}

func TestSampler_CounterResetClampsToZero(t *testing.T) {
	src := &fakeSource{
		disk: IOCounters{ReadBytes: 10_000, WriteBytes: 10_000},
		net:  []InterfaceCounters{{Name: "eth0", BytesSent: 9000, BytesRecv: 9000}},
	}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	src.disk = IOCounters{ReadBytes: 10, WriteBytes: 20_000}
	src.net = []InterfaceCounters{{Name: "eth0", BytesSent: 5, BytesRecv: 9100}}
	sample := s.Sample(context.Background())

	assert.Zero(t, sample.Disk.ReadPerSec)
	assert.InDelta(t, 10_000.0, sample.Disk.WritePerSec, 0.001)
	assert.Zero(t, sample.Network.SentPerSec)
	assert.InDelta(t, 100.0, sample.Network.RecvPerSec, 0.001)
}

func TestSampler_LoopbackExcludedFromTotals(t *testing.T) {
	src := &fakeSource{
		net: []InterfaceCounters{
			{Name: "lo", BytesSent: 0, BytesRecv: 0},
			{Name: "eth0", BytesSent: 0, BytesRecv: 0},
		},
	}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	src.net = []InterfaceCounters{
		{Name: "lo", BytesSent: 1_000_000, BytesRecv: 1_000_000},
		{Name: "eth0", BytesSent: 10, BytesRecv: 20},
	}
	sample := s.Sample(context.Background())

	assert.InDelta(t, 10.0, sample.Network.SentPerSec, 0.001)
	assert.InDelta(t, 20.0, sample.Network.RecvPerSec, 0.001)
	// Loopback is still listed per interface
	assert.Len(t, sample.Network.Interfaces, 2)
}

func TestSampler_NewInterfaceHasZeroRate(t *testing.T) {
	src := &fakeSource{net: []InterfaceCounters{{Name: "eth0"}}}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	src.net = []InterfaceCounters{
		{Name: "eth0", BytesRecv: 100},
		{Name: "wg0", BytesRecv: 5_000_000},
	}
	sample := s.Sample(context.Background())

	assert.InDelta(t, 100.0, sample.Network.RecvPerSec, 0.001)
	for _, iface := range sample.Network.Interfaces {
		if iface.Name == "wg0" {
			assert.Zero(t, iface.RecvPerSec)
		}
	}
}

func TestSampler_ProcessIORates(t *testing.T) {
	start := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	src := &fakeSource{
		procs: []ProcessCounters{
			{PID: 1, Name: "init", ReadBytes: 100, WriteBytes: 100, IOAvailable: true, CreateTime: start},
			{PID: 2, Name: "locked", IOAvailable: false, CreateTime: start},
		},
	}
	s := newTestSampler(src, time.Second)

	first := s.Sample(context.Background())
	require.Len(t, first.Processes, 2)
	assert.Zero(t, first.Processes[0].ReadPerSec)

	src.procs = []ProcessCounters{
		{PID: 1, Name: "init", ReadBytes: 1100, WriteBytes: 300, IOAvailable: true, CreateTime: start},
		{PID: 2, Name: "locked", IOAvailable: false, CreateTime: start},
	}
	second := s.Sample(context.Background())
	require.Len(t, second.Processes, 2)

	p1 := second.Processes[0]
	assert.True(t, p1.IOAvailable)
	assert.InDelta(t, 1000.0, p1.ReadPerSec, 0.001)
	assert.InDelta(t, 200.0, p1.WritePerSec, 0.001)
	assert.InDelta(t, 1200.0, p1.DiskPerSec(), 0.001)
	assert.Equal(t, time.Hour+time.Second, p1.Uptime)

	p2 := second.Processes[1]
	assert.False(t, p2.IOAvailable)
	assert.Zero(t, p2.DiskPerSec())
}

func TestSampler_ProcessPIDReuse(t *testing.T) {
	oldStart := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	newStart := time.Date(2024, 1, 1, 11, 59, 59, 0, time.UTC)
	src := &fakeSource{
		procs: []ProcessCounters{{PID: 42, Name: "old", ReadBytes: 10, IOAvailable: true, CreateTime: oldStart}},
	}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	src.procs = []ProcessCounters{{PID: 42, Name: "new", ReadBytes: 9_000_000, IOAvailable: true, CreateTime: newStart}}
	sample := s.Sample(context.Background())

	require.Len(t, sample.Processes, 1)
	assert.Zero(t, sample.Processes[0].ReadPerSec)
}

func TestSampler_DeadProcessesPruned(t *testing.T) {
	src := &fakeSource{
		procs: []ProcessCounters{
			{PID: 1, Name: "a", IOAvailable: true},
			{PID: 2, Name: "b", IOAvailable: true},
		},
	}
	s := newTestSampler(src, time.Second)

	s.Sample(context.Background())
	assert.Len(t, s.prevProc, 2)

	src.procs = []ProcessCounters{{PID: 2, Name: "b", IOAvailable: true}}
	s.Sample(context.Background())
	assert.Len(t, s.prevProc, 1)
	_, ok := s.prevProc[1]
	assert.False(t, ok)
}

func TestSampler_UnavailableMetric(t *testing.T) {
	src := &fakeSource{
		mem:     MemoryMetrics{TotalBytes: 1024, UsedBytes: 512, UsedPercent: 50},
		diskErr: fmt.Errorf("permission denied"),
	}
	log := logger.NewBufferLogger()
	s := NewSampler(src, log)

	sample := s.Sample(context.Background())

	assert.False(t, sample.Available(MetricDisk))
	assert.True(t, sample.Available(MetricMemory))
	assert.Equal(t, 50.0, sample.Memory.UsedPercent)
	assert.True(t, errors.IsCode(sample.Unavailable[MetricDisk], errors.ErrMetric))
	assert.Contains(t, sample.Unavailable[MetricDisk].Error(), "disk metrics unavailable")

	// The outage is logged once, not every tick
	s.Sample(context.Background())
	s.Sample(context.Background())
	assert.Equal(t, 1, log.Count("debug"))

	// Recovery is logged and the next reading starts a fresh baseline
	src.diskErr = nil
	recovered := s.Sample(context.Background())
	assert.True(t, recovered.Available(MetricDisk))
	assert.False(t, recovered.Disk.Ready)
	assert.Equal(t, 2, log.Count("debug"))
}

func TestSampler_StructuredMetricErrorKept(t *testing.T) {
	reason := errors.Wrap(fmt.Errorf("the OS reported no block devices"), "disk metrics unavailable")
	s := NewSampler(&fakeSource{diskErr: reason}, nil)

	sample := s.Sample(context.Background())

	assert.Same(t, reason, sample.Unavailable[MetricDisk])
	assert.Contains(t, sample.Unavailable[MetricDisk].Error(), "no block devices")
}

func TestSampler_Probe(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := NewSampler(&fakeSource{}, nil)
		assert.NoError(t, s.Probe(context.Background()))
	})

	t.Run("memory unreadable", func(t *testing.T) {
		s := NewSampler(&fakeSource{memErr: fmt.Errorf("no /proc")}, nil)
		err := s.Probe(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrStartup))
	})

	t.Run("process table unreadable", func(t *testing.T) {
		s := NewSampler(&fakeSource{procErr: fmt.Errorf("denied")}, nil)
		err := s.Probe(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrStartup))
		assert.Contains(t, err.Error(), "process table")
	})
}

func TestRate(t *testing.T) {
	tests := []struct {
		name    string
		prev    uint64
		cur     uint64
		elapsed float64
		want    float64
	}{
		{"steady", 1000, 1500, 1, 500},
		{"half second", 1000, 1500, 0.5, 1000},
		{"no change", 1000, 1000, 1, 0},
		{"counter reset", 1500, 1000, 1, 0},
		{"zero elapsed", 0, 1000, 0, 0},
		{"negative elapsed", 0, 1000, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rate(tt.prev, tt.cur, tt.elapsed), 0.0001)
		})
	}
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("lo"))
	assert.True(t, isLoopback("lo0"))
	assert.True(t, isLoopback("Loopback Pseudo-Interface 1"))
	assert.False(t, isLoopback("eth0"))
	assert.False(t, isLoopback("lonely0"))
}

func TestSumWholeDisks(t *testing.T) {
	stats := map[string]IOCounters{
		"sda":       {ReadBytes: 1000, WriteBytes: 100},
		"sda1":      {ReadBytes: 600, WriteBytes: 60},
		"sda2":      {ReadBytes: 400, WriteBytes: 40},
		"nvme0n1":   {ReadBytes: 50, WriteBytes: 5},
		"nvme0n1p1": {ReadBytes: 50, WriteBytes: 5},
	}

	total := sumWholeDisks(stats)
	assert.Equal(t, uint64(1050), total.ReadBytes)
	assert.Equal(t, uint64(105), total.WriteBytes)
}

func TestSumWholeDisks_SiblingDevices(t *testing.T) {
	// Devices sharing a name prefix are separate disks
	stats := map[string]IOCounters{
		"loop1":  {ReadBytes: 100},
		"loop10": {ReadBytes: 1000},
		"dm-1":   {ReadBytes: 10},
		"dm-12":  {ReadBytes: 10000},
		"md1":    {ReadBytes: 1},
		"md127":  {ReadBytes: 20000},
		"sda":    {ReadBytes: 300000},
		"sdaa":   {ReadBytes: 4000000},
	}

	assert.Equal(t, uint64(4331111), sumWholeDisks(stats).ReadBytes)
}

func TestIsPartition(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		want   bool
	}{
		{"sda1", "sda", true},
		{"sdaa", "sda", false},
		{"nvme0n1p2", "nvme0n1", true},
		{"mmcblk0p1", "mmcblk0", true},
		{"disk0s1", "disk0", true},
		{"md127p1", "md127", true},
		{"loop10", "loop1", false},
		{"dm-12", "dm-1", false},
		{"md127", "md1", false},
		{"nvme0n1px", "nvme0n1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := map[string]IOCounters{tt.name: {}, tt.parent: {}}
			assert.Equal(t, tt.want, isPartition(tt.name, stats))
		})
	}
}

func TestSumWholeDisks_PartitionsOnly(t *testing.T) {
	// Without the parent device each partition counts on its own
	stats := map[string]IOCounters{
		"disk0s1": {ReadBytes: 10},
		"disk1s1": {ReadBytes: 20},
	}
	assert.Equal(t, uint64(30), sumWholeDisks(stats).ReadBytes)
}
