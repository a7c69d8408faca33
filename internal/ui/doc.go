// Package ui provides terminal output components shared by sysmon's
// commands: styled tables, a one-line spinner and terminal detection.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Calling lipgloss.SetColorProfile(termenv.Ascii) turns every component
// monochrome (the --no-color path of sysmon snapshot).
//
// # Tables
//
// RenderSimpleTable lays out fixed-width columns with a header rule and
// truncates overlong cells so each row stays on one line:
//
//	ui.RenderSimpleTable([]ui.TableColumn{
//		{Title: "PID", Width: 7, AlignRight: true},
//		{Title: "NAME", Width: 20},
//	}, rows)
//
// # Spinner
//
//	s := ui.NewSpinner("Sampling", os.Stderr)
//	s.Start()
//	// ... wait ...
//	s.Success() // or s.Fail()
package ui
