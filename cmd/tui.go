package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive events browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.open(); err != nil {
		return err
	}

	var desktop reconcile.Notifier
	if r.config.Notifications.Desktop {
		desktop = reconcile.NewDesktopNotifier(r.logger)
	}

	model := ui.NewModel(ctx, ui.Deps{
		Catalog:  r.catalog,
		Store:    r.store,
		Ledger:   r.ledger,
		Client:   r.client,
		Auth:     r.auth,
		Remote:   r.remote,
		Notifier: reconcile.Notifiers{reconcile.LogNotifier{Logger: r.logger}, desktop},
		NavDelay: r.config.Favorites.NavDelay(),
		Logger:   r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
