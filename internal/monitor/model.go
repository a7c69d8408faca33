package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rileyhilliard/sysmon/internal/logger"
)

// Defaults applied by NewModel to zero Options fields.
const (
	DefaultTopN     = 10
	DefaultInterval = time.Second
)

// sampleTimeout bounds a single sampling pass so a stuck OS call cannot
// hold the in-flight slot forever.
const sampleTimeout = 5 * time.Second

// Options configures the dashboard. They are fixed for the lifetime of the
// Model.
type Options struct {
	TopN        int
	Interval    time.Duration
	View        ViewMode
	Mouse       bool
	HistorySize int
	Thresholds  Thresholds
	Logger      logger.Logger
}

// Model is the Bubble Tea model for the monitor dashboard. It is only
// touched by the Bubble Tea event loop; sampling happens in a command whose
// result comes back as a sampleMsg.
type Model struct {
	ctx     context.Context
	sampler *Sampler
	history *History
	zones   *zone.Manager
	log     logger.Logger

	topN       int
	interval   time.Duration
	thresholds Thresholds

	view    ViewMode
	sample  *Sample
	started time.Time
	now     time.Time
	width   int
	height  int

	// sampling is true while a sampleCmd is in flight; at most one runs at a time.
	sampling bool
	showHelp bool
	quitting bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// sampleMsg carries a freshly captured Sample back to the event loop.
type sampleMsg struct {
	sample *Sample
}

// NewModel creates a dashboard reading from sampler. ctx bounds every
// sampling pass; cancel it to abandon in-flight OS calls on shutdown.
func NewModel(ctx context.Context, sampler *Sampler, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	now := time.Now()
	m := Model{
		ctx:        ctx,
		sampler:    sampler,
		history:    NewHistory(opts.HistorySize),
		log:        opts.Logger,
		topN:       opts.TopN,
		interval:   opts.Interval,
		thresholds: opts.Thresholds,
		view:       opts.View,
		started:    now,
		now:        now,
		// Init always starts the first sample
		sampling: true,
	}
	if opts.Mouse {
		m.zones = zone.New()
	}
	return m
}

// Init takes the first sample right away and starts the tick timer.
func (m Model) Init() tea.Cmd {
	m.log.Debug("monitor started: top=%d interval=%s view=%s history=%d", m.topN, m.interval, m.view.Name(), m.history.Size())
	return tea.Batch(
		m.sampleCmd(),
		m.tickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.now = time.Time(msg)
		return m, tea.Batch(m.tickCmd(), m.startSample())

	case sampleMsg:
		m.sampling = false
		if msg.sample != nil {
			m.sample = msg.sample
			m.now = msg.sample.Timestamp
			m.history.Push(msg.sample)
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	f := m.frame()
	if m.zones == nil {
		return RenderFrame(f)
	}
	f.Mark = m.zones.Mark
	return m.zones.Scan(RenderFrame(f))
}

// frame assembles the render input from the current state.
func (m Model) frame() Frame {
	return Frame{
		View:       m.view,
		Sample:     m.sample,
		TopN:       m.topN,
		Interval:   m.interval,
		Elapsed:    m.now.Sub(m.started),
		Now:        m.now,
		Width:      m.width,
		History:    m.history,
		Thresholds: m.thresholds,
	}
}

// ActiveView returns the view currently shown.
func (m Model) ActiveView() ViewMode {
	return m.view
}

// Latest returns the most recent sample, nil before the first one arrives.
func (m Model) Latest() *Sample {
	return m.sample
}

// Quitting reports whether the user asked to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// Close releases the mouse zone tracker. Call it after the program exits.
func (m Model) Close() {
	if m.zones != nil {
		m.zones.Close()
	}
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleCmd captures one Sample off the event loop.
func (m Model) sampleCmd() tea.Cmd {
	ctx, sampler := m.ctx, m.sampler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, sampleTimeout)
		defer cancel()
		return sampleMsg{sample: sampler.Sample(ctx)}
	}
}

// startSample starts a sample unless one is already in flight.
func (m *Model) startSample() tea.Cmd {
	if m.sampling {
		return nil
	}
	m.sampling = true
	return m.sampleCmd()
}

// handleMouse switches views when a tab is clicked.
func (m *Model) handleMouse(msg tea.MouseMsg) bool {
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return false
	}
	for _, v := range AllViews {
		if z := m.zones.Get(tabZoneID(v)); z != nil && z.InBounds(msg) {
			m.view = v
			m.showHelp = false
			return true
		}
	}
	return false
}
