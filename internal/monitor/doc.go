// Package monitor implements sysmon's real-time terminal dashboard for the
// local host.
//
// The dashboard shows a compact overview of CPU, memory, disk and network
// usage above a detail view selected from the keyboard. Each detail view
// lists the top N processes ranked by the metric that view is about.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds dashboard state (latest sample, active view, history)
//   - Update: Processes messages (keystrokes, clicks, ticks, new samples)
//   - View: Renders the current state to a string for display
//
// # Key Components
//
//	Source      - Reads raw counters from the OS (HostSource uses gopsutil)
//	Sampler     - Turns counter snapshots into per-second rates
//	History     - Ring buffer storage for sparkline graphs
//	RenderFrame - Pure renderer shared by the TUI and the snapshot command
//
// # Message Flow
//
//  1. tickMsg fires at the configured interval (default 1s)
//  2. sampleCmd() captures a Sample off the event loop, unless one is already in flight
//  3. sampleMsg arrives, updating Model.sample and History
//  4. View() re-renders the dashboard with new data
//
// Rates need two snapshots, so the first frame shows N/A for disk, network
// and per-process I/O. Counter resets clamp to zero.
//
// # Keyboard Shortcuts
//
//	1 / c       - CPU view
//	2 / m       - Memory view
//	3 / d       - Disk I/O view
//	4 / n       - Network I/O view
//	5 / u       - Uptime view
//	r           - Force refresh
//	?           - Toggle help overlay
//	q, Ctrl+C   - Quit
//
// With mouse support enabled, clicking a tab also switches views.
package monitor
