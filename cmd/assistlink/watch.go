package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/assistlink/internal/tui"
	"github.com/muurk/assistlink/internal/ui"
)

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the interactive dashboard",
		Long: `Open a full-screen dashboard that re-runs discovery every --interval.

The dashboard shows which backend is live, lists its commands and lets you run
them or simulate button presses. Press ? for key bindings and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTerminal() {
				return errors.New("watch needs an interactive terminal; use 'assistlink status' in scripts")
			}
			return tui.Run(cmd.Context(), a.client(), interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", tui.DefaultInterval, "How often to re-run discovery")

	return cmd
}
