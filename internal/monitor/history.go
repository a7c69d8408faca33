package monitor

import "sync"

// DefaultHistorySize is the default number of data points to retain per series.
const DefaultHistorySize = 60

// Series identifies one tracked history line.
type Series int

const (
	SeriesCPU Series = iota
	SeriesMemory
	SeriesDiskRead
	SeriesDiskWrite
	SeriesNetSent
	SeriesNetRecv
	seriesCount
)

// History keeps recent overview values in ring buffers for sparkline rendering.
type History struct {
	mu     sync.RWMutex
	size   int
	series [seriesCount]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a new history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	h := &History{size: size}
	for i := range h.series {
		h.series[i] = newRingBuffer(size)
	}
	return h
}

// Push records the overview values of a sample. Metrics that were unavailable
// are skipped, and rates are only recorded once they are ready, so the
// first tick never plots a fake zero.
func (h *History) Push(s *Sample) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if s.Available(MetricCPU) {
		h.series[SeriesCPU].push(s.CPU.Percent)
	}
	if s.Available(MetricMemory) {
		h.series[SeriesMemory].push(s.Memory.UsedPercent)
	}
	if s.Available(MetricDisk) && s.Disk.Ready {
		h.series[SeriesDiskRead].push(s.Disk.ReadPerSec)
		h.series[SeriesDiskWrite].push(s.Disk.WritePerSec)
	}
	if s.Available(MetricNetwork) && s.Network.Ready {
		h.series[SeriesNetSent].push(s.Network.SentPerSec)
		h.series[SeriesNetRecv].push(s.Network.RecvPerSec)
	}
}

// Get returns the last count values of a series, oldest first.
// Returns fewer values if not enough history is available.
func (h *History) Get(series Series, count int) []float64 {
	if series < 0 || series >= seriesCount {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.series[series].getLast(count)
}

// Size returns the capacity of each series.
func (h *History) Size() int {
	return h.size
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write position, so the newest value sits at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		idx := (start + i) % r.size
		result[i] = r.data[idx]
	}

	return result
}
