package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/spf13/cobra"
)

// Global flags shared by the dashboard and its subcommands
var (
	cfgFile string
)

// debugLogFlag is the dashboard-only --debug-log value.
var debugLogFlag string

// rootCmd starts the dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Interactive terminal resource monitor",
	Long: `sysmon shows live CPU, memory, disk I/O, network I/O and uptime for
this machine, with the top N processes for the selected view.

Keys:
  1 / c   CPU view          4 / n   Network I/O view
  2 / m   Memory view       5 / u   Uptime view
  3 / d   Disk I/O view     r       Refresh now
  ?       Help              q       Quit (also Ctrl+C)

Settings come from ~/.config/sysmon/config.yaml (see 'sysmon config init');
flags override the file.

Examples:
  sysmon
  sysmon -n 20 -r 0.5
  sysmon --view network
  sysmon snapshot --no-color`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd, MonitorOptions{DebugLog: debugLogFlag})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ~/.config/sysmon/config.yaml)")
	pf.IntP(config.FlagTop, "n", config.DefaultTop, "number of processes or interfaces to list")
	pf.Float64P(config.FlagRefresh, "r", config.DefaultRefresh, "refresh interval in seconds")
	pf.String(config.FlagView, config.DefaultView, "starting view (cpu, memory, disk, network, uptime)")

	_ = rootCmd.RegisterFlagCompletionFunc(config.FlagView, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.KnownViews, cobra.ShellCompDirectiveNoFileComp
	})

	// Read by the config loader, which folds it into Config.Mouse
	rootCmd.Flags().Bool(config.FlagNoMouse, false, "disable clicking on view tabs")
	rootCmd.Flags().StringVar(&debugLogFlag, "debug-log", "", "write debug logs to this file")
}

// Execute runs the root command. Errors are printed in the structured
// format and exit with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config for cmd: defaults, then the
// config file, then flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadOrDefault(cfgFile, cmd.Flags())
}

// viewFromConfig converts the validated view name into a ViewMode.
func viewFromConfig(cfg *config.Config) monitor.ViewMode {
	v, err := monitor.ParseViewMode(cfg.View)
	if err != nil {
		return monitor.ViewCPU
	}
	return v
}

// thresholdsFromConfig maps config thresholds onto dashboard colors.
func thresholdsFromConfig(cfg *config.Config) monitor.Thresholds {
	return monitor.Thresholds{
		CPUWarning:     cfg.Thresholds.CPU.Warning,
		CPUCritical:    cfg.Thresholds.CPU.Critical,
		MemoryWarning:  cfg.Thresholds.Memory.Warning,
		MemoryCritical: cfg.Thresholds.Memory.Critical,
	}
}
