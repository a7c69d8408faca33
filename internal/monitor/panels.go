package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Fixed widths of the overview row parts.
const (
	overviewLabelWidth = 6
	sparkWidthWide     = 20
	sparkWidthNarrow   = 10
	// Wide sparklines need this much room inside the panel.
	sparkWideMinInner = 70
)

// Column widths shared by the process and interface tables.
const (
	colPID     = 7
	colPercent = 7
	colBytes   = 10
	colRate    = 11
	colUptime  = 9
	colStarted = 13
	colNameMin = 8
)

// Per-core bar layout.
const (
	coreCellWidth = 19
	coreBarWidth  = 8
	coreMaxRows   = 4
)

const waitingText = "Waiting for first sample..."

// na renders the placeholder for a value that is not available.
func na() string {
	return UnavailableStyle.Render(NotAvailable)
}

// unavailableLine explains why a panel has no data.
func unavailableLine(m Metric) string {
	return UnavailableStyle.Render(string(m) + " metrics unavailable")
}

// innerWidth is the content width inside a section box.
func innerWidth(f Frame) int {
	return f.Width - 4
}

// renderOverview renders the always-visible summary of all resources.
func renderOverview(f Frame) string {
	inner := innerWidth(f)
	sparkW := sparkWidthNarrow
	if inner >= sparkWideMinInner {
		sparkW = sparkWidthWide
	}
	textW := inner - overviewLabelWidth - sparkW - 1

	s := f.Sample
	row := func(label, text string, spark string) string {
		return padRight(LabelStyle.Render(label), overviewLabelWidth) +
			padRight(text, textW) + " " + spark
	}
	spark := func(series Series, percent bool, color lipgloss.Color) string {
		if f.History == nil {
			return ""
		}
		data := f.History.Get(series, sparkW)
		if percent {
			return RenderPercentSparkline(data, sparkW, color)
		}
		return RenderRateSparkline(data, sparkW, color)
	}

	cpuText, memText, diskText, netText := na(), na(), na(), na()
	value := ""

	if s != nil {
		th := f.Thresholds
		if s.Available(MetricCPU) {
			cpuText = MetricStyleWithThresholds(s.CPU.Percent, th.CPUWarning, th.CPUCritical).
				Render(padLeft(formatPercent(s.CPU.Percent), 6)) + " " +
				ThinProgressBarWithThresholds(10, s.CPU.Percent, th.CPUWarning, th.CPUCritical)
		}
		if s.Available(MetricMemory) {
			memText = MetricStyleWithThresholds(s.Memory.UsedPercent, th.MemoryWarning, th.MemoryCritical).
				Render(padLeft(formatPercent(s.Memory.UsedPercent), 6)) + " " +
				ValueStyle.Render(formatBytes(s.Memory.UsedBytes)+" / "+formatBytes(s.Memory.TotalBytes))
		}
		if s.Available(MetricDisk) {
			diskText = rateText("R", s.Disk.ReadPerSec, s.Disk.Ready) + "  " + rateText("W", s.Disk.WritePerSec, s.Disk.Ready)
		}
		if s.Available(MetricNetwork) {
			netText = rateText("↑", s.Network.SentPerSec, s.Network.Ready) + "  " + rateText("↓", s.Network.RecvPerSec, s.Network.Ready)
		}
		if s.Available(MetricProcesses) {
			value = fmt.Sprintf("%d procs", len(s.Processes))
		}
	}

	lines := []string{
		row("CPU", cpuText, spark(SeriesCPU, true, ColorAccent)),
		row("MEM", memText, spark(SeriesMemory, true, ColorAccentDim)),
		row("DISK", diskText, spark(SeriesDiskRead, false, ColorRead)),
		row("NET", netText, spark(SeriesNetRecv, false, ColorRead)),
	}
	return section("Overview", value, f.Width, lines)
}

// rateText renders a labelled rate, or N/A before two samples exist.
func rateText(label string, perSec float64, ready bool) string {
	if !ready {
		return LabelStyle.Render(label+" ") + na()
	}
	return LabelStyle.Render(label+" ") + ValueStyle.Render(FormatRate(perSec))
}

// renderBody dispatches to the active view.
func renderBody(f Frame) string {
	switch f.View {
	case ViewMemory:
		return renderMemoryBody(f)
	case ViewDisk:
		return renderDiskBody(f)
	case ViewNetwork:
		return renderNetworkBody(f)
	case ViewUptime:
		return renderUptimeBody(f)
	default:
		return renderCPUBody(f)
	}
}

// renderCPUBody shows load, per-core usage and the busiest processes.
func renderCPUBody(f Frame) string {
	s := f.Sample
	if s == nil {
		return section(ViewCPU.String(), "", f.Width, []string{MutedStyle.Render(waitingText)})
	}
	if !s.Available(MetricCPU) {
		return section(ViewCPU.String(), NotAvailable, f.Width,
			append([]string{unavailableLine(MetricCPU), ""}, processLines(f, ViewCPU)...))
	}

	th := f.Thresholds
	var lines []string

	info := LabelStyle.Render("Cores ") + ValueStyle.Render(fmt.Sprintf("%d", s.CPU.Cores))
	if s.CPU.HasLoad {
		info += LabelStyle.Render("   Load ") + ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f",
			s.CPU.LoadAvg[0], s.CPU.LoadAvg[1], s.CPU.LoadAvg[2]))
	}
	lines = append(lines, info)
	lines = append(lines, coreLines(s.CPU.PerCore, innerWidth(f), th)...)
	lines = append(lines, "")
	lines = append(lines, processLines(f, ViewCPU)...)

	return section(ViewCPU.String(), formatPercent(s.CPU.Percent), f.Width, lines)
}

// coreLines lays out one small bar per core, as many per line as fit.
func coreLines(perCore []float64, inner int, th Thresholds) []string {
	if len(perCore) == 0 {
		return nil
	}

	perRow := inner / coreCellWidth
	if perRow < 1 {
		perRow = 1
	}

	var lines []string
	var cells []string
	shown := 0
	for i, pct := range perCore {
		if len(lines) == coreMaxRows {
			break
		}
		cell := padRight(LabelStyle.Render(fmt.Sprintf("c%d", i)), 4) +
			ThinProgressBarWithThresholds(coreBarWidth, pct, th.CPUWarning, th.CPUCritical) + " " +
			MetricStyleWithThresholds(pct, th.CPUWarning, th.CPUCritical).Render(padLeft(fmt.Sprintf("%.0f%%", pct), 4))
		cells = append(cells, cell)
		shown++
		if len(cells) == perRow {
			lines = append(lines, strings.Join(cells, "  "))
			cells = nil
		}
	}
	if len(cells) > 0 && len(lines) < coreMaxRows {
		lines = append(lines, strings.Join(cells, "  "))
	}
	if hidden := len(perCore) - shown; hidden > 0 {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("+%d more cores", hidden)))
	}
	return lines
}

// renderMemoryBody shows memory and swap usage and the largest processes.
func renderMemoryBody(f Frame) string {
	s := f.Sample
	if s == nil {
		return section(ViewMemory.String(), "", f.Width, []string{MutedStyle.Render(waitingText)})
	}
	if !s.Available(MetricMemory) {
		return section(ViewMemory.String(), NotAvailable, f.Width,
			append([]string{unavailableLine(MetricMemory), ""}, processLines(f, ViewMemory)...))
	}

	th := f.Thresholds
	m := s.Memory
	barWidth := innerWidth(f) - 8
	if barWidth < 10 {
		barWidth = 10
	}

	lines := []string{
		padRight(LabelStyle.Render("RAM"), 6) + ThinProgressBarWithThresholds(barWidth, m.UsedPercent, th.MemoryWarning, th.MemoryCritical),
		LabelStyle.Render("Used ") + ValueStyle.Render(formatBytes(m.UsedBytes)) +
			LabelStyle.Render("   Available ") + ValueStyle.Render(formatBytes(m.AvailableBytes)) +
			LabelStyle.Render("   Total ") + ValueStyle.Render(formatBytes(m.TotalBytes)),
	}
	if m.SwapTotalBytes > 0 {
		swapPct := float64(m.SwapUsedBytes) / float64(m.SwapTotalBytes) * 100
		lines = append(lines, LabelStyle.Render("Swap ")+ValueStyle.Render(
			fmt.Sprintf("%s / %s (%s)", formatBytes(m.SwapUsedBytes), formatBytes(m.SwapTotalBytes), formatPercent(swapPct))))
	} else {
		lines = append(lines, LabelStyle.Render("Swap ")+MutedStyle.Render("none"))
	}
	lines = append(lines, "")
	lines = append(lines, processLines(f, ViewMemory)...)

	return section(ViewMemory.String(), formatPercent(m.UsedPercent), f.Width, lines)
}

// renderDiskBody shows system disk throughput and the heaviest I/O processes.
func renderDiskBody(f Frame) string {
	s := f.Sample
	if s == nil {
		return section(ViewDisk.String(), "", f.Width, []string{MutedStyle.Render(waitingText)})
	}

	var lines []string
	value := NotAvailable
	if !s.Available(MetricDisk) {
		lines = append(lines, unavailableLine(MetricDisk))
	} else {
		lines = append(lines, rateText("Read ", s.Disk.ReadPerSec, s.Disk.Ready)+"   "+
			rateText("Write", s.Disk.WritePerSec, s.Disk.Ready))
		if s.Disk.Ready {
			value = FormatRate(s.Disk.ReadPerSec + s.Disk.WritePerSec)
		}
	}
	lines = append(lines, "")
	lines = append(lines, processLines(f, ViewDisk)...)

	return section(ViewDisk.String(), value, f.Width, lines)
}

// renderNetworkBody shows system network throughput and the busiest interfaces.
func renderNetworkBody(f Frame) string {
	s := f.Sample
	if s == nil {
		return section(ViewNetwork.String(), "", f.Width, []string{MutedStyle.Render(waitingText)})
	}
	if !s.Available(MetricNetwork) {
		return section(ViewNetwork.String(), NotAvailable, f.Width, []string{unavailableLine(MetricNetwork)})
	}

	n := s.Network
	value := NotAvailable
	if n.Ready {
		value = FormatRate(n.SentPerSec + n.RecvPerSec)
	}

	lines := []string{
		rateText("Sent", n.SentPerSec, n.Ready) + "   " + rateText("Received", n.RecvPerSec, n.Ready),
		"",
		tableTitle(fmt.Sprintf("Top %d interfaces by throughput", f.TopN)),
	}

	fixed := []ui.TableColumn{
		{Title: "SENT/s", Width: colRate, AlignRight: true},
		{Title: "RECV/s", Width: colRate, AlignRight: true},
		{Title: "TOTAL/s", Width: colRate, AlignRight: true},
		{Title: "SENT", Width: colBytes, AlignRight: true},
		{Title: "RECV", Width: colBytes, AlignRight: true},
	}
	columns := append([]ui.TableColumn{{Title: "INTERFACE", Width: flexWidth(f, fixed)}}, fixed...)

	ifaces := TopInterfaces(n.Interfaces, f.TopN)
	if len(ifaces) == 0 {
		lines = append(lines, MutedStyle.Render("no interfaces"))
		return section(ViewNetwork.String(), value, f.Width, lines)
	}

	rows := make([][]string, 0, len(ifaces))
	for _, iface := range ifaces {
		sent, recv, total := NotAvailable, NotAvailable, NotAvailable
		if n.Ready {
			sent, recv, total = FormatRate(iface.SentPerSec), FormatRate(iface.RecvPerSec), FormatRate(iface.Total())
		}
		rows = append(rows, []string{
			iface.Name, sent, recv, total,
			formatBytes(iface.BytesSent), formatBytes(iface.BytesRecv),
		})
	}
	lines = append(lines, strings.Split(ui.RenderSimpleTable(columns, rows), "\n")...)

	return section(ViewNetwork.String(), value, f.Width, lines)
}

// renderUptimeBody shows system uptime and the longest-running processes.
func renderUptimeBody(f Frame) string {
	s := f.Sample
	if s == nil {
		return section(ViewUptime.String(), "", f.Width, []string{MutedStyle.Render(waitingText)})
	}

	var lines []string
	value := NotAvailable
	if !s.Available(MetricSystem) {
		lines = append(lines, unavailableLine(MetricSystem))
	} else {
		value = FormatDuration(s.System.Uptime)
		line := LabelStyle.Render("System up ") + ValueStyle.Render(FormatDuration(s.System.Uptime))
		if !s.System.BootTime.IsZero() {
			line += LabelStyle.Render("   Booted ") + ValueStyle.Render(s.System.BootTime.Format("2006-01-02 15:04"))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	lines = append(lines, processLines(f, ViewUptime)...)

	return section(ViewUptime.String(), value, f.Width, lines)
}

// tableTitle renders the caption above a ranked table.
func tableTitle(text string) string {
	return LabelStyle.Render(text)
}

// flexWidth returns the width left for the one flexible column after the
// fixed columns and their gutters.
func flexWidth(f Frame, fixed []ui.TableColumn) int {
	w := innerWidth(f) - 1 // gutter of the flexible column itself
	for _, c := range fixed {
		w -= c.Width + 1
	}
	if w < colNameMin {
		w = colNameMin
	}
	return w
}

// processColumns returns the table layout for a view's process list.
func processColumns(f Frame, view ViewMode) []ui.TableColumn {
	var fixed []ui.TableColumn
	switch view {
	case ViewMemory:
		fixed = []ui.TableColumn{
			{Title: "RSS", Width: colBytes, AlignRight: true},
			{Title: "MEM%", Width: colPercent, AlignRight: true},
			{Title: "CPU%", Width: colPercent, AlignRight: true},
		}
	case ViewDisk:
		fixed = []ui.TableColumn{
			{Title: "READ/s", Width: colRate, AlignRight: true},
			{Title: "WRITE/s", Width: colRate, AlignRight: true},
			{Title: "TOTAL/s", Width: colRate, AlignRight: true},
		}
	case ViewUptime:
		fixed = []ui.TableColumn{
			{Title: "UPTIME", Width: colUptime, AlignRight: true},
			{Title: "STARTED", Width: colStarted, AlignRight: true},
			{Title: "RSS", Width: colBytes, AlignRight: true},
		}
	default:
		fixed = []ui.TableColumn{
			{Title: "CPU%", Width: colPercent, AlignRight: true},
			{Title: "RSS", Width: colBytes, AlignRight: true},
		}
	}

	pid := ui.TableColumn{Title: "PID", Width: colPID, AlignRight: true}
	name := ui.TableColumn{Title: "NAME", Width: flexWidth(f, append([]ui.TableColumn{pid}, fixed...))}
	return append([]ui.TableColumn{pid, name}, fixed...)
}

// processCaption describes what a view ranks processes by.
func processCaption(view ViewMode, n int) string {
	switch view {
	case ViewMemory:
		return fmt.Sprintf("Top %d processes by memory", n)
	case ViewDisk:
		return fmt.Sprintf("Top %d processes by disk I/O", n)
	case ViewUptime:
		return fmt.Sprintf("Top %d longest-running processes", n)
	default:
		return fmt.Sprintf("Top %d processes by CPU", n)
	}
}

// processLines renders the ranked process table for view.
func processLines(f Frame, view ViewMode) []string {
	s := f.Sample
	lines := []string{tableTitle(processCaption(view, f.TopN))}

	if !s.Available(MetricProcesses) {
		return append(lines, unavailableLine(MetricProcesses))
	}

	procs := TopProcesses(s.Processes, view, f.TopN)
	if len(procs) == 0 {
		return append(lines, MutedStyle.Render("no processes"))
	}

	// Per-process rates need a previous sample to diff against
	ratesReady := s.Elapsed > 0

	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		row := []string{fmt.Sprintf("%d", p.PID), p.Name}
		switch view {
		case ViewMemory:
			memPct := NotAvailable
			if s.Memory.TotalBytes > 0 {
				memPct = formatPercent(float64(p.MemoryRSS) / float64(s.Memory.TotalBytes) * 100)
			}
			row = append(row, formatBytes(p.MemoryRSS), memPct, formatPercent(p.CPUPercent))
		case ViewDisk:
			if p.IOAvailable && ratesReady {
				row = append(row, FormatRate(p.ReadPerSec), FormatRate(p.WritePerSec), FormatRate(p.DiskPerSec()))
			} else {
				row = append(row, NotAvailable, NotAvailable, NotAvailable)
			}
		case ViewUptime:
			uptime := NotAvailable
			if !p.StartTime.IsZero() {
				uptime = FormatDuration(p.Uptime)
			}
			row = append(row, uptime, formatStart(p.StartTime, f.Now), formatBytes(p.MemoryRSS))
		default:
			row = append(row, formatPercent(p.CPUPercent), formatBytes(p.MemoryRSS))
		}
		rows = append(rows, row)
	}

	return append(lines, strings.Split(ui.RenderSimpleTable(processColumns(f, view), rows), "\n")...)
}

// formatStart renders a process start time: clock time for today,
// date and time otherwise.
func formatStart(start, now time.Time) string {
	if start.IsZero() {
		return NotAvailable
	}
	if now.IsZero() {
		now = time.Now()
	}
	start = start.In(now.Location())
	y1, m1, d1 := start.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return start.Format("15:04:05")
	}
	return start.Format("Jan 02 15:04")
}
