package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/niagara/internal/formatter"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/urfave/cli/v3"
)

// Events lists catalog events with the current source's saved markers.
func (r *Runner) Events(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.open(); err != nil {
		return err
	}

	saved := r.saved(ctx)
	events := r.catalog.Filter(cmd.String("category"), cmd.String("query"))
	return r.render(format, cmd.String("output"), "Events", formatter.Rows(events, saved))
}

// Favorites lists the saved catalog events.
func (r *Runner) Favorites(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.open(); err != nil {
		return err
	}

	saved := r.saved(ctx)
	return r.render(format, cmd.String("output"), "Your favorites", formatter.Rows(r.catalog.Select(saved), saved))
}

func (r *Runner) saved(ctx context.Context) models.FavoriteSet {
	saved, err := r.source().Favorites(ctx)
	if err != nil {
		r.logger.Warn("favorites unavailable", "error", err)
		return models.NewFavoriteSet()
	}
	return saved
}

func (r *Runner) render(format formatter.Format, path, title string, rows []formatter.EventRow) error {
	if path != "" {
		if err := formatter.WriteFile(path, format, title, rows); err != nil {
			return err
		}
		r.logger.Info("wrote events", "path", path, "count", len(rows))
		return nil
	}
	return formatter.Write(r.output, format, title, rows)
}

// Heart taps the heart on an event.
//
// Signed out, the tap is stored locally and the command waits for the deferred
// navigation, then prints the profile location to pass to signin or signup.
func (r *Runner) Heart(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return fmt.Errorf("%w: event id", shared.ErrMissingArgument)
	}
	id, err := models.NewFavoriteID(arg)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}
	if err := r.open(); err != nil {
		return err
	}
	if _, ok := r.catalog.Find(id); !ok {
		r.logger.Warn("event is not in the catalog", "event", id)
	}

	navigated := make(chan string, 1)
	heart := reconcile.NewHeart(reconcile.HeartOpts{
		Store:    r.store,
		Ledger:   r.ledger,
		Client:   r.client,
		Notifier: r.notifier(),
		Navigator: reconcile.NavigatorFunc(func(to string) {
			navigated <- to
		}),
		Delay:  r.config.Favorites.NavDelay(),
		Now:    r.now,
		Logger: r.logger,
	})

	saved, err := heart.Tap(ctx, id, cmd.String("from"))
	if err != nil {
		return err
	}

	pending := heart.Pending()
	if pending == nil {
		return nil
	}

	r.writePlain("%s %s\n", formatter.EventRow{Event: models.Event{ID: id}, Saved: saved}.Heart(), id)
	select {
	case <-pending.Done():
	case <-ctx.Done():
		heart.Close()
		return ctx.Err()
	}

	select {
	case to := <-navigated:
		r.writePlain("Sign in to keep it: niagara signin --url '%s'\n", to)
	default:
	}
	return nil
}

type gateReport struct {
	Pending         *models.PendingFavorite `json:"pending"`
	ConfirmedEvent  models.FavoriteID       `json:"confirmedEventId,omitempty"`
	LegacyConfirmed bool                    `json:"legacyConfirmed"`
	Ledger          []models.FavoriteID     `json:"tempFavorites"`
}

// Gate shows the stored heart tap, the confirmation markers and the ledger.
func (r *Runner) Gate(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	report := gateReport{LegacyConfirmed: r.store.LegacyConfirmed(), Ledger: r.ledger.All().Slice()}
	if entry, ok := r.store.PendingFavorite(); ok {
		report.Pending = &entry
	}
	if id, ok := r.store.ConfirmedEvent(); ok {
		report.ConfirmedEvent = id
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("Pending favorite")
	if report.Pending == nil {
		r.writePlain("none\n")
	} else {
		title := string(report.Pending.EventID)
		if ev, ok := r.catalog.Find(report.Pending.EventID); ok {
			title = ev.Title
		}
		r.writePlain("event:      %s (%s)\n", report.Pending.EventID, title)
		r.writePlain("prev saved: %t\n", report.Pending.PrevSaved)
		r.writePlain("tapped at:  %d\n", report.Pending.CreatedAt)
	}
	r.writePlain("confirmed:  %s\n", report.ConfirmedEvent)
	r.writePlain("legacy:     %t\n", report.LegacyConfirmed)
	r.writePlain("ledger:     %v\n", report.Ledger)
	return nil
}
