package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configInitYes   bool
)

// configCmd groups config file subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sysmon config file",
}

// configInitCmd writes a config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.config/sysmon/config.yaml",
	Long: `Create a sysmon config file with your preferred defaults.

On a terminal you are asked for each setting. With --yes (or when not on a
terminal) the built-in defaults are written as-is.

Examples:
  sysmon config init
  sysmon config init --yes
  sysmon config init --force --config ./sysmon.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		return configInit(ConfigInitOptions{
			Path:           path,
			Overwrite:      configInitForce,
			NonInteractive: configInitYes || !ui.IsTerminal(os.Stdin),
			Out:            cmd.OutOrStdout(),
		})
	},
}

// configShowCmd prints the effective config.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config as YAML",
	Long: `Print the config sysmon would run with: defaults, overlaid with the
config file, overlaid with any flags given on this command line.

Examples:
  sysmon config show
  sysmon config show -n 25 --view memory`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVarP(&configInitYes, "yes", "y", false, "skip prompts and write defaults")
}

// ConfigInitOptions holds options for config init.
type ConfigInitOptions struct {
	Path           string
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use defaults
	Out            io.Writer
}

// configInit writes a new config file, prompting for values when interactive.
func configInit(opts ConfigInitOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(opts.Path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "%s Wrote %s\n", ui.SymbolSuccess, opts.Path)
	return nil
}

// promptConfig asks for the common settings, starting from cfg's values.
func promptConfig(cfg *config.Config) error {
	top := strconv.Itoa(cfg.Top)
	refresh := strconv.FormatFloat(cfg.Refresh, 'f', -1, 64)
	view := cfg.View
	mouse := cfg.Mouse

	viewOptions := make([]huh.Option[string], 0, len(config.KnownViews))
	for _, v := range config.KnownViews {
		viewOptions = append(viewOptions, huh.NewOption(v, v))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Processes per view").
				Description("How many rows the top-N tables show").
				Value(&top).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Refresh interval (seconds)").
				Description("Fractions like 0.5 are fine").
				Value(&refresh).
				Validate(validatePositiveFloat),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Starting view").
				Options(viewOptions...).
				Value(&view),
			huh.NewConfirm().
				Title("Enable mouse clicks on view tabs?").
				Value(&mouse),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Run 'sysmon config init --yes' to write defaults instead")
	}

	// Validators already accepted these
	cfg.Top, _ = strconv.Atoi(strings.TrimSpace(top))
	cfg.Refresh, _ = strconv.ParseFloat(strings.TrimSpace(refresh), 64)
	cfg.View = view
	cfg.Mouse = mouse
	return nil
}

// validatePositiveInt accepts whole numbers >= 1.
func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}

// validatePositiveFloat accepts numbers > 0.
func validatePositiveFloat(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("enter a number greater than 0")
	}
	if time.Duration(f*float64(time.Second)) < config.MinInterval {
		return fmt.Errorf("enter at least %g", config.MinInterval.Seconds())
	}
	return nil
}

// configShow prints the effective config, noting which file it came from.
func configShow(cmd *cobra.Command, out io.Writer) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(out, "# source: %s\n", source)
	_, err = out.Write(data)
	return err
}
