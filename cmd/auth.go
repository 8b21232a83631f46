package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/urfave/cli/v3"
)

// mount opens the profile screen at --url. Navigations the screen makes are recorded in the returned pointer.
func (r *Runner) mount(cmd *cli.Command) (*reconcile.AuthScreen, *string, error) {
	if err := r.open(); err != nil {
		return nil, nil, err
	}

	path, params := reconcile.ParseLocation(cmd.String("url"))
	if path != reconcile.ProfilePath {
		return nil, nil, fmt.Errorf("%w: --url must point at %s, got %q", shared.ErrInvalidFlag, reconcile.ProfilePath, path)
	}

	var redirect string
	screen := reconcile.MountAuthScreen(r.authOpts(reconcile.NavigatorFunc(func(to string) {
		redirect = to
	})), params)

	if ev, ok := screen.PendingEvent(); ok {
		r.logger.Debug("profile mounted with pending favorite", "event", ev.ID)
	}
	return screen, &redirect, nil
}

// unmount leaves the profile screen and reports what happened to a pending favorite.
func (r *Runner) unmount(screen *reconcile.AuthScreen, redirect *string) {
	ev, pending := screen.PendingEvent()
	state := screen.Unmount()
	r.logger.Debug("profile unmounted", "gate", state)

	if pending {
		label := string(ev.ID)
		if ev.Title != "" {
			label = ev.Title
		}
		r.writePlain("Pending favorite %s: %s\n", label, state)
	}
	if *redirect != "" {
		r.writePlain("→ %s\n", *redirect)
	}
}

// Profile visits the profile screen and leaves without signing in.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	screen, redirect, err := r.mount(cmd)
	if err != nil {
		return err
	}
	defer r.unmount(screen, redirect)

	if user, ok := screen.User(); ok {
		r.writePlain("Signed in as %s <%s>\n", user.Name, user.Email)
	} else {
		r.writePlain("Signed out\n")
	}
	return nil
}

// SignIn authenticates from the profile screen.
func (r *Runner) SignIn(ctx context.Context, cmd *cli.Command) error {
	screen, redirect, err := r.mount(cmd)
	if err != nil {
		return err
	}
	defer r.unmount(screen, redirect)

	out := screen.SignIn(ctx, cmd.String("email"), cmd.String("password"))
	return r.report(out)
}

// SignUp creates an account from the profile screen.
func (r *Runner) SignUp(ctx context.Context, cmd *cli.Command) error {
	if cmd.String("password") != cmd.String("confirm") {
		return fmt.Errorf("%w: passwords do not match", shared.ErrInvalidInput)
	}

	screen, redirect, err := r.mount(cmd)
	if err != nil {
		return err
	}
	defer r.unmount(screen, redirect)

	out := screen.SignUp(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
	return r.report(out)
}

func (r *Runner) report(out reconcile.Outcome) error {
	if out.Err != nil {
		return out.Err
	}
	if out.Migrated > 0 {
		r.writePlain("Uploaded %d favorites saved while signed out\n", out.Migrated)
	}
	return nil
}

// SignOut forgets the signed-in user. Favorites saved while signed out stay local.
func (r *Runner) SignOut(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}
	if _, ok := r.store.User(); !ok {
		return r.writePlain("Not signed in\n")
	}
	if err := r.store.ClearUser(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
	}
	r.logger.Info("signed out")
	return r.writePlain("✓ Signed out\n")
}

// WhoAmI prints the signed-in user.
func (r *Runner) WhoAmI(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}
	user, ok := r.store.User()
	if !ok {
		return fmt.Errorf("%w: run 'niagara signin' first", shared.ErrNotSignedIn)
	}
	return r.writePlain("%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
}
