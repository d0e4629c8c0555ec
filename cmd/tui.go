package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/desertthunder/todox/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive list browser for the signed-in user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	if lvl, err := shared.ParseLevel(r.config.Log.Level); err == nil {
		shared.SetLogLevel(fileLogger, lvl)
	}
	r.SetLogger(fileLogger)

	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(fileLogger, "user", session.Username)
	model := ui.NewModel(ctx, srv, r.engine, session.Owner(), logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
