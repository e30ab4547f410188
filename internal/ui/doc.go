// Package ui renders assistlink's command-line output with Lipgloss.
//
// Components follow a "print once" pattern: they are rendered to a string
// and written out, with no event loop. The interactive dashboard lives in
// package tui and shares this package's dark palette.
//
//   - Header: banner with the command and its resolved parameters
//   - ProbeReport: candidate list of a discovery pass (live, dead, skipped)
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - Printer: writes the above, or plain lines when output is not for humans
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintSuccess("Server discovered", ui.Param{Key: "URL", Value: url})
//
// Logging stays silent unless ASSISTLINK_LOG_LEVEL or --log-level is set, so
// zap output does not interleave with these components.
package ui
