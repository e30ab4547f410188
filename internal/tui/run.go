package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dashboard until the user quits or ctx is cancelled
func Run(ctx context.Context, backend Backend, interval time.Duration) error {
	p := tea.NewProgram(
		New(ctx, backend, interval),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
