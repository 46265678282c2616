package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/shared"
	"github.com/moodtune/moodtune/internal/ui"
)

// TUI launches the interactive terminal UI for emotion-based recommendations.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/moodtune-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var player *ui.Player
	if r.config.Player.Command != "" {
		if player, err = ui.NewPlayer(r.config.Player.Command); err != nil {
			fileLogger.Warn("preview player disabled", "error", err)
			player = nil
		}
	}

	model := ui.NewModel(ctx, r.engine, r.assembler, player, cmd.Int("limit"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
