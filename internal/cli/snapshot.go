package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/spf13/cobra"
)

// snapshotWidth is used when stdout is not a terminal.
const snapshotWidth = 100

var (
	snapshotNoColor bool
	snapshotWidthFl int
)

// snapshotCmd prints a single frame and exits.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one dashboard frame and exit",
	Long: `Sample the machine twice, one refresh interval apart, and print the
selected view once. Useful in scripts, over plain pipes, and in bug reports.

Examples:
  sysmon snapshot
  sysmon snapshot --view disk -r 2
  sysmon snapshot -n 5 --no-color > report.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if snapshotNoColor || !ui.IsTerminal(os.Stdout) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		width := snapshotWidthFl
		if width <= 0 {
			width, _ = ui.TerminalSize(os.Stdout, snapshotWidth, 0)
		}

		var progress io.Writer
		if ui.IsTerminal(os.Stderr) {
			progress = os.Stderr
		}

		return snapshotCommand(cmd.Context(), monitor.NewHostSource(), cfg, SnapshotOptions{
			Width:    width,
			Out:      cmd.OutOrStdout(),
			Progress: progress,
		})
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotNoColor, "no-color", false, "disable colors")
	snapshotCmd.Flags().IntVar(&snapshotWidthFl, "width", 0, "frame width (default: terminal width, or 100)")
}

// SnapshotOptions controls where and how wide a snapshot is printed.
type SnapshotOptions struct {
	Width    int
	Out      io.Writer
	Progress io.Writer // Spinner output; nil disables it
}

// snapshotCommand takes two samples cfg.Interval() apart so rates are
// ready, then renders one frame of the configured view to opts.Out.
func snapshotCommand(ctx context.Context, src monitor.Source, cfg *config.Config, opts SnapshotOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.Default()

	sampler := monitor.NewSampler(src, lg)
	if err := sampler.Probe(ctx); err != nil {
		return err
	}

	var spinner *ui.Spinner
	if opts.Progress != nil {
		spinner = ui.NewSpinner("Sampling", opts.Progress)
		spinner.Start()
		defer func() {
			if spinner.State() == ui.SpinnerInProgress {
				spinner.Fail()
			}
		}()
	}

	started := time.Now()
	history := monitor.NewHistory(cfg.History)
	history.Push(sampler.Sample(ctx))

	select {
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.ErrStartup,
			"Snapshot cancelled",
			"")
	case <-time.After(cfg.Interval()):
	}

	sample := sampler.Sample(ctx)
	history.Push(sample)
	if spinner != nil {
		spinner.Success()
	}

	frame := monitor.RenderFrame(monitor.Frame{
		View:       viewFromConfig(cfg),
		Sample:     sample,
		TopN:       cfg.Top,
		Interval:   cfg.Interval(),
		Elapsed:    time.Since(started),
		Now:        sample.Timestamp,
		Width:      opts.Width,
		History:    history,
		Thresholds: thresholdsFromConfig(cfg),
	})

	if _, err := fmt.Fprintln(opts.Out, frame); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Failed to write snapshot",
			"")
	}
	return nil
}
