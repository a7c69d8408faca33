package monitor

import "sort"

// processKey returns the value a view ranks processes by.
func processKey(view ViewMode, p ProcessInfo) float64 {
	switch view {
	case ViewMemory:
		return float64(p.MemoryRSS)
	case ViewDisk:
		if !p.IOAvailable {
			return -1
		}
		return p.DiskPerSec()
	case ViewUptime:
		return float64(p.Uptime)
	default:
		return p.CPUPercent
	}
}

// TopProcesses returns at most n processes ordered by the metric view
// focuses on, highest first. Ties fall back to ascending PID so the order
// is stable between frames. In the disk view, processes without readable
// I/O counters sort after every process that has them.
func TopProcesses(procs []ProcessInfo, view ViewMode, n int) []ProcessInfo {
	if n <= 0 || len(procs) == 0 {
		return nil
	}

	ranked := make([]ProcessInfo, len(procs))
	copy(ranked, procs)

	sort.SliceStable(ranked, func(i, j int) bool {
		ki, kj := processKey(view, ranked[i]), processKey(view, ranked[j])
		if ki != kj {
			return ki > kj
		}
		return ranked[i].PID < ranked[j].PID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopInterfaces returns at most n interfaces ordered by combined throughput,
// highest first, ties broken by name.
func TopInterfaces(ifaces []InterfaceRate, n int) []InterfaceRate {
	if n <= 0 || len(ifaces) == 0 {
		return nil
	}

	ranked := make([]InterfaceRate, len(ifaces))
	copy(ranked, ifaces)

	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := ranked[i].Total(), ranked[j].Total()
		if ti != tj {
			return ti > tj
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
