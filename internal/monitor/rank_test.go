package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProcs() []ProcessInfo {
	return []ProcessInfo{
		{PID: 10, Name: "idle", CPUPercent: 0.1, MemoryRSS: 1 << 20, Uptime: 10 * time.Hour, IOAvailable: true},
		{PID: 20, Name: "compiler", CPUPercent: 95, MemoryRSS: 800 << 20, Uptime: time.Minute, IOAvailable: true, ReadPerSec: 5000},
		{PID: 30, Name: "browser", CPUPercent: 40, MemoryRSS: 2 << 30, Uptime: 3 * time.Hour, IOAvailable: true, WritePerSec: 100},
		{PID: 40, Name: "db", CPUPercent: 40, MemoryRSS: 300 << 20, Uptime: 5 * time.Hour, IOAvailable: true, ReadPerSec: 9000, WritePerSec: 9000},
		{PID: 5, Name: "kthread", CPUPercent: 2, MemoryRSS: 0, Uptime: 20 * time.Hour, IOAvailable: false},
	}
}

func pids(procs []ProcessInfo) []int32 {
	out := make([]int32, len(procs))
	for i, p := range procs {
		out[i] = p.PID
	}
	return out
}

func TestTopProcesses_ByView(t *testing.T) {
	tests := []struct {
		view ViewMode
		n    int
		want []int32
	}{
		// CPU tie between 30 and 40 resolves by PID
		{ViewCPU, 3, []int32{20, 30, 40}},
		{ViewMemory, 2, []int32{30, 20}},
		// Unreadable I/O sorts last
		{ViewDisk, 5, []int32{40, 20, 30, 10, 5}},
		{ViewUptime, 2, []int32{5, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			got := TopProcesses(sampleProcs(), tt.view, tt.n)
			assert.Equal(t, tt.want, pids(got))
		})
	}
}

func TestTopProcesses_NeverExceedsN(t *testing.T) {
	procs := sampleProcs()
	for n := 1; n <= len(procs)+3; n++ {
		got := TopProcesses(procs, ViewCPU, n)
		assert.LessOrEqual(t, len(got), n)
		assert.True(t, isNonIncreasing(got))
	}
}

func isNonIncreasing(procs []ProcessInfo) bool {
	for i := 1; i < len(procs); i++ {
		if procs[i].CPUPercent > procs[i-1].CPUPercent {
			return false
		}
	}
	return true
}

func TestTopProcesses_DoesNotMutateInput(t *testing.T) {
	procs := sampleProcs()
	before := pids(procs)

	TopProcesses(procs, ViewMemory, 2)
	assert.Equal(t, before, pids(procs))
}

func TestTopProcesses_Empty(t *testing.T) {
	assert.Nil(t, TopProcesses(nil, ViewCPU, 10))
	assert.Nil(t, TopProcesses(sampleProcs(), ViewCPU, 0))
}

func TestTopInterfaces(t *testing.T) {
	ifaces := []InterfaceRate{
		{Name: "lo", SentPerSec: 10, RecvPerSec: 10},
		{Name: "eth0", SentPerSec: 500, RecvPerSec: 1500},
		{Name: "wlan0", SentPerSec: 0, RecvPerSec: 0},
		{Name: "docker0", SentPerSec: 10, RecvPerSec: 10},
	}

	got := TopInterfaces(ifaces, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "eth0", got[0].Name)
	// Equal totals resolve by name
	assert.Equal(t, "docker0", got[1].Name)
	assert.Equal(t, "lo", got[2].Name)

	assert.Nil(t, TopInterfaces(ifaces, 0))
	assert.Len(t, TopInterfaces(ifaces, 10), 4)
}
