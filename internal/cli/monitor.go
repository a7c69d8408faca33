package cli

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/spf13/cobra"
)

// MonitorOptions holds the dashboard-only flags.
type MonitorOptions struct {
	DebugLog string // Log file path; empty discards log output
}

// monitorCommand starts the TUI dashboard and blocks until the user quits.
func monitorCommand(cmd *cobra.Command, opts MonitorOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return errors.New(errors.ErrTerminal,
			"sysmon needs an interactive terminal",
			"Run it directly in a terminal, or use 'sysmon snapshot' for one-shot output.")
	}

	// Anything written through the log package would land on top of the
	// alternate screen, so it goes to a file or nowhere.
	closeLog, err := setupLogging(opts.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()
	lg := logger.New("[sysmon]", opts.DebugLog != "")
	logger.SetDefault(lg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sampler := monitor.NewSampler(monitor.NewHostSource(), lg)
	if err := sampler.Probe(ctx); err != nil {
		return err
	}

	model := monitor.NewModel(ctx, sampler, dashboardOptions(cfg, lg))
	defer model.Close()

	p := tea.NewProgram(model, programOptions(ctx, cfg.Mouse)...)
	if _, err := p.Run(); err != nil && !isCleanExit(err) {
		lg.Error("dashboard exited: %v", err)
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Dashboard stopped unexpectedly",
			"Check the terminal supports alternate screen mode, or try --no-mouse.")
	}

	lg.Debug("dashboard exited cleanly")
	return nil
}

// dashboardOptions maps the effective config onto monitor options.
func dashboardOptions(cfg *config.Config, lg logger.Logger) monitor.Options {
	return monitor.Options{
		TopN:        cfg.Top,
		Interval:    cfg.Interval(),
		View:        viewFromConfig(cfg),
		Mouse:       cfg.Mouse,
		HistorySize: cfg.History,
		Thresholds:  thresholdsFromConfig(cfg),
		Logger:      lg,
	}
}

// programOptions builds the Bubble Tea options for the dashboard.
func programOptions(ctx context.Context, mouse bool) []tea.ProgramOption {
	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

// setupLogging points the log package at path, or discards it when path is
// empty. The returned func restores nothing but closes the file.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open debug log "+path,
			"Check the directory exists and is writable")
	}
	return func() { _ = f.Close() }, nil
}

// isCleanExit reports whether a Run error is just the program being
// stopped by a signal or context cancellation.
func isCleanExit(err error) bool {
	return stderrors.Is(err, tea.ErrProgramKilled) ||
		stderrors.Is(err, tea.ErrInterrupted) ||
		stderrors.Is(err, context.Canceled)
}
