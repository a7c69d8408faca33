// Package cli implements the sysmon command-line interface.
//
// The package is organized around Cobra commands. The root command runs
// the interactive dashboard; subcommands cover one-shot and housekeeping
// tasks:
//
//	sysmon [-n N] [-r SECONDS]  - Live dashboard (default)
//	sysmon snapshot             - Print one frame and exit
//	sysmon config init          - Create ~/.config/sysmon/config.yaml
//	sysmon config show          - Print the effective config
//	sysmon version              - Build information
//	sysmon completion <shell>   - Shell completion script
//
// # Flag Handling
//
// -n/--top, -r/--refresh, --view and --config are persistent flags on the
// root command, so snapshot and config show accept them too. Effective
// settings are resolved by internal/config: defaults, then the config file,
// then flags the user actually passed.
//
// # Errors
//
// Commands return structured errors from internal/errors. Execute prints
// them in the ✗/cause/suggestion layout and exits with status 1. Quitting
// the dashboard, SIGINT and SIGTERM are clean exits with status 0.
package cli
