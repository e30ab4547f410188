// Package tui implements the interactive watch dashboard using Bubble Tea.
//
// The dashboard re-runs server discovery on a fixed interval and shows which
// candidate is live. Once a server answers it loads the backend's command
// catalogue into a list; selecting a command prompts for key=value arguments
// and runs it as a job. Button mode sends simulated presses of the A, B and
// arrow buttons.
//
// All network calls run as tea.Cmds, never inside Update or View, so a slow
// or dead backend cannot freeze the screen. Nothing is cached between polls
// beyond what is on screen: every poll and every action discovers the server
// again.
//
// Usage:
//
//	client := settings.NewClient(nil)
//	if err := tui.Run(ctx, client, 3*time.Second); err != nil {
//	    log.Fatal(err)
//	}
package tui
