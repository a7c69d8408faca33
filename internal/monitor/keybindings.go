package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewMode selects which resource the body of the screen focuses on.
type ViewMode int

const (
	ViewCPU ViewMode = iota
	ViewMemory
	ViewDisk
	ViewNetwork
	ViewUptime
)

// AllViews lists the views in tab order. Keys 1-5 follow this order.
var AllViews = []ViewMode{ViewCPU, ViewMemory, ViewDisk, ViewNetwork, ViewUptime}

// String returns the tab label for the view.
func (v ViewMode) String() string {
	switch v {
	case ViewCPU:
		return "CPU"
	case ViewMemory:
		return "Memory"
	case ViewDisk:
		return "Disk I/O"
	case ViewNetwork:
		return "Network I/O"
	case ViewUptime:
		return "Uptime"
	default:
		return "CPU"
	}
}

// Name returns the lowercase identifier used by --view and the config file.
func (v ViewMode) Name() string {
	switch v {
	case ViewMemory:
		return "memory"
	case ViewDisk:
		return "disk"
	case ViewNetwork:
		return "network"
	case ViewUptime:
		return "uptime"
	default:
		return "cpu"
	}
}

// ParseViewMode accepts a view name ("cpu", "memory", "disk", "network",
// "uptime"), a short alias ("mem", "io", "net") or a tab number "1"-"5".
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu", "c", "1":
		return ViewCPU, nil
	case "memory", "mem", "m", "2":
		return ViewMemory, nil
	case "disk", "io", "d", "3":
		return ViewDisk, nil
	case "network", "net", "n", "4":
		return ViewNetwork, nil
	case "uptime", "u", "5":
		return ViewUptime, nil
	}
	return ViewCPU, fmt.Errorf("unknown view %q", s)
}

// keyMap holds every binding the dashboard reacts to.
type keyMap struct {
	CPU     key.Binding
	Memory  key.Binding
	Disk    key.Binding
	Network key.Binding
	Uptime  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	CPU: key.NewBinding(
		key.WithKeys("1", "c", "C"),
		key.WithHelp("1 / c", "CPU view"),
	),
	Memory: key.NewBinding(
		key.WithKeys("2", "m", "M"),
		key.WithHelp("2 / m", "Memory view"),
	),
	Disk: key.NewBinding(
		key.WithKeys("3", "d", "D"),
		key.WithHelp("3 / d", "Disk I/O view"),
	),
	Network: key.NewBinding(
		key.WithKeys("4", "n", "N"),
		key.WithHelp("4 / n", "Network I/O view"),
	),
	Uptime: key.NewBinding(
		key.WithKeys("5", "u", "U"),
		key.WithHelp("5 / u", "Uptime view"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "Refresh now"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "Toggle this help"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "Close help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "Q", "ctrl+c"),
		key.WithHelp("q / ctrl+c", "Quit"),
	),
}

// viewBinding returns the binding that selects v.
func (k keyMap) viewBinding(v ViewMode) key.Binding {
	switch v {
	case ViewMemory:
		return k.Memory
	case ViewDisk:
		return k.Disk
	case ViewNetwork:
		return k.Network
	case ViewUptime:
		return k.Uptime
	default:
		return k.CPU
	}
}

// FullHelp lists bindings in the order the help overlay shows them.
func (k keyMap) FullHelp() []key.Binding {
	return []key.Binding{k.CPU, k.Memory, k.Disk, k.Network, k.Uptime, k.Refresh, k.Help, k.Close, k.Quit}
}

// viewForKey maps a key press to the view it selects.
func viewForKey(msg tea.KeyMsg) (ViewMode, bool) {
	for _, v := range AllViews {
		if key.Matches(msg, keys.viewBinding(v)) {
			return v, true
		}
	}
	return 0, false
}

// HandleKeyMsg processes keyboard input and updates the model state.
// Returns true if the key was handled, false otherwise. Unhandled keys leave
// the model untouched.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Quit works from every state, help overlay included
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return true, tea.Quit
	}

	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, keys.Close) {
		m.showHelp = false
		return true, nil
	}

	if v, ok := viewForKey(msg); ok {
		m.view = v
		m.showHelp = false
		return true, nil
	}

	if key.Matches(msg, keys.Refresh) {
		return true, m.startSample()
	}

	return false, nil
}
