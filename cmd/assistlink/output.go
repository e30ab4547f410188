package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/muurk/assistlink/internal/apiclient"
	"github.com/muurk/assistlink/internal/ui"
)

// reportedError has already been shown to the user; main only sets the
// exit status.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// errorOutput is the --format json shape of a failure
type errorOutput struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	ServerURL  string `json:"serverUrl,omitempty"`
}

// fail shows err in the selected format and returns it as a reportedError
func (a *app) fail(title string, err error) error {
	if a.json() {
		out := errorOutput{Error: err.Error()}
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			out.Kind = apiErr.Type.String()
			out.StatusCode = apiErr.StatusCode
			out.ServerURL = apiErr.ServerURL
		}
		if writeErr := a.out.PrintJSON(out); writeErr != nil {
			// Nothing reached the user; let main print both
			return errors.Join(err, writeErr)
		}
		return &reportedError{err: err}
	}

	a.errOut.PrintError(title, err, ui.SplitHint(apiclient.GetTroubleshootingHint(err)))
	return &reportedError{err: err}
}

// plainSetup prepares output without loading settings, for commands that
// must work even when the settings file is broken.
func (a *app) plainSetup(cmd *cobra.Command) {
	a.out = ui.NewPrinter(cmd.OutOrStdout())
	a.errOut = ui.NewPrinter(cmd.ErrOrStderr())
	a.out.Plain = a.opts.format == formatPlain
	a.errOut.Plain = a.out.Plain
}
