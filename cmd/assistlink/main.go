// Assistlink finds a locally running assistant backend and talks to it.
//
// The backend listens on one of a few fixed loopback ports. Every command
// probes those ports in order (GET /ping), picks the first one that answers
// and sends its request there. Nothing is cached: the next command
// discovers the server again.
//
// Usage:
//
//	assistlink [command] [flags]
//
// See 'assistlink --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muurk/assistlink/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logging.Sync()

	os.Exit(exitCode(err))
}

// exitCode reports err (unless already reported) and maps it to a status
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}
