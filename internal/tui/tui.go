package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive task list and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Tasks == nil {
		return errors.New("tui: no task list")
	}
	applyColorProfilePreference()
	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
