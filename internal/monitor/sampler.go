package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
)

// Sampler captures Samples from a Source and turns cumulative disk, network
// and per-process I/O counters into per-second rates.
//
// Sample is safe to call from a goroutine other than the UI loop; the
// previous-counter state is guarded by a mutex.
type Sampler struct {
	mu     sync.Mutex
	source Source
	log    logger.Logger
	now    func() time.Time

	prevAt   time.Time
	prevDisk *IOCounters
	prevNet  map[string]InterfaceCounters
	prevProc map[int32]procIOState

	// down tracks metrics currently failing so each outage is logged once.
	down map[Metric]bool
}

// procIOState is the last observed I/O counter pair of one process.
type procIOState struct {
	read  uint64
	write uint64
	start time.Time
}

// NewSampler creates a Sampler reading from source.
func NewSampler(source Source, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{
		source:   source,
		log:      log,
		now:      time.Now,
		prevProc: make(map[int32]procIOState),
		down:     make(map[Metric]bool),
	}
}

// Probe verifies that the OS facilities the monitor cannot work without
// (memory statistics and the process table) are readable. It is called once
// at startup; a failure means the monitor should not start.
func (s *Sampler) Probe(ctx context.Context) error {
	if _, err := s.source.Memory(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrStartup,
			"Cannot read memory statistics",
			"sysmon needs access to the OS resource counters (is /proc mounted?)")
	}
	if _, err := s.source.Processes(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrStartup,
			"Cannot read the process table",
			"Run sysmon on a supported platform with permission to list processes")
	}
	return nil
}

// Sample captures one snapshot. It never fails as a whole: counters that
// cannot be read are recorded in Sample.Unavailable and left zero.
func (s *Sampler) Sample(ctx context.Context) *Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sample := &Sample{
		Timestamp:   now,
		Unavailable: make(map[Metric]error),
	}

	var elapsed float64
	if !s.prevAt.IsZero() {
		sample.Elapsed = now.Sub(s.prevAt)
		elapsed = sample.Elapsed.Seconds()
	}

	if cpuMetrics, err := s.source.CPU(ctx); err != nil {
		s.markDown(sample, MetricCPU, err)
	} else {
		sample.CPU = cpuMetrics
		s.markUp(MetricCPU)
	}

	if memMetrics, err := s.source.Memory(ctx); err != nil {
		s.markDown(sample, MetricMemory, err)
	} else {
		sample.Memory = memMetrics
		s.markUp(MetricMemory)
	}

	if sys, err := s.source.System(ctx); err != nil {
		s.markDown(sample, MetricSystem, err)
	} else {
		sample.System = sys
		s.markUp(MetricSystem)
	}

	s.sampleDisk(ctx, sample, elapsed)
	s.sampleNetwork(ctx, sample, elapsed)
	s.sampleProcesses(ctx, sample, elapsed, now)

	s.prevAt = now
	return sample
}

// sampleDisk fills system disk rates. Without a previous reading the rates
// stay zero and Ready is false.
func (s *Sampler) sampleDisk(ctx context.Context, sample *Sample, elapsed float64) {
	cur, err := s.source.DiskCounters(ctx)
	if err != nil {
		s.markDown(sample, MetricDisk, err)
		s.prevDisk = nil
		return
	}
	s.markUp(MetricDisk)

	if s.prevDisk != nil && elapsed > 0 {
		sample.Disk = DiskRates{
			ReadPerSec:  rate(s.prevDisk.ReadBytes, cur.ReadBytes, elapsed),
			WritePerSec: rate(s.prevDisk.WriteBytes, cur.WriteBytes, elapsed),
			Ready:       true,
		}
	}
	s.prevDisk = &cur
}

// sampleNetwork fills per-interface and total network rates.
// Totals leave out loopback traffic.
func (s *Sampler) sampleNetwork(ctx context.Context, sample *Sample, elapsed float64) {
	ifaces, err := s.source.NetCounters(ctx)
	if err != nil {
		s.markDown(sample, MetricNetwork, err)
		s.prevNet = nil
		return
	}
	s.markUp(MetricNetwork)

	ready := s.prevNet != nil && elapsed > 0
	next := make(map[string]InterfaceCounters, len(ifaces))
	rates := make([]InterfaceRate, 0, len(ifaces))

	for _, cur := range ifaces {
		next[cur.Name] = cur

		r := InterfaceRate{
			Name:      cur.Name,
			BytesSent: cur.BytesSent,
			BytesRecv: cur.BytesRecv,
		}
		if prev, ok := s.prevNet[cur.Name]; ok && ready {
			r.SentPerSec = rate(prev.BytesSent, cur.BytesSent, elapsed)
			r.RecvPerSec = rate(prev.BytesRecv, cur.BytesRecv, elapsed)
		}
		rates = append(rates, r)

		if !isLoopback(cur.Name) {
			sample.Network.SentPerSec += r.SentPerSec
			sample.Network.RecvPerSec += r.RecvPerSec
		}
	}

	sample.Network.Interfaces = rates
	sample.Network.Ready = ready
	s.prevNet = next
}

// sampleProcesses builds the process table and per-process disk rates.
// State for processes that have exited is dropped.
func (s *Sampler) sampleProcesses(ctx context.Context, sample *Sample, elapsed float64, now time.Time) {
	procs, err := s.source.Processes(ctx)
	if err != nil {
		s.markDown(sample, MetricProcesses, err)
		return
	}
	s.markUp(MetricProcesses)

	next := make(map[int32]procIOState, len(procs))
	sample.Processes = make([]ProcessInfo, 0, len(procs))

	for _, pc := range procs {
		info := ProcessInfo{
			PID:         pc.PID,
			Name:        pc.Name,
			CPUPercent:  pc.CPUPercent,
			MemoryRSS:   pc.MemoryRSS,
			IOAvailable: pc.IOAvailable,
			StartTime:   pc.CreateTime,
		}
		if !pc.CreateTime.IsZero() && now.After(pc.CreateTime) {
			info.Uptime = now.Sub(pc.CreateTime)
		}

		if pc.IOAvailable {
			prev, seen := s.prevProc[pc.PID]
			// A different start time means the PID was reused.
			if seen && prev.start.Equal(pc.CreateTime) && elapsed > 0 {
				info.ReadPerSec = rate(prev.read, pc.ReadBytes, elapsed)
				info.WritePerSec = rate(prev.write, pc.WriteBytes, elapsed)
			}
			next[pc.PID] = procIOState{read: pc.ReadBytes, write: pc.WriteBytes, start: pc.CreateTime}
		}

		sample.Processes = append(sample.Processes, info)
	}

	s.prevProc = next
}

// markDown records an unreadable metric on the sample and logs the first
// failure of each outage.
func (s *Sampler) markDown(sample *Sample, m Metric, err error) {
	if !errors.IsCode(err, errors.ErrMetric) {
		err = errors.MetricUnavailable(string(m), err)
	}
	sample.Unavailable[m] = err
	if !s.down[m] {
		s.down[m] = true
		s.log.Debug("%s metrics unavailable: %v", m, err)
	}
}

// markUp clears the outage flag for m, logging recovery.
func (s *Sampler) markUp(m Metric) {
	if s.down[m] {
		delete(s.down, m)
		s.log.Debug("%s metrics available again", m)
	}
}

// rate converts a counter delta into a per-second value. Counters that went
// backwards (reset, wrap, suspend/resume) yield zero instead of a negative rate.
func rate(prev, cur uint64, elapsedSec float64) float64 {
	if elapsedSec <= 0 || cur < prev {
		return 0
	}
	return float64(cur-prev) / elapsedSec
}

// isLoopback reports whether an interface name is a loopback device.
func isLoopback(name string) bool {
	return name == "lo" || name == "lo0" || strings.HasPrefix(strings.ToLower(name), "loopback")
}
