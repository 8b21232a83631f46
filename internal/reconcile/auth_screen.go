package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/gate"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgSignUpFailed       = "Could not create account."
	msgBackendDown        = "Backend not reachable."
)

// AuthScreenOpts are the collaborators of an [AuthScreen].
type AuthScreenOpts struct {
	Store     *store.Store
	Ledger    *favorites.Ledger
	Auth      services.AuthAPI
	Migrator  *Migrator
	Catalog   *catalog.Catalog
	Notifier  Notifier
	Navigator Navigator
	Now       func() time.Time
	Logger    *log.Logger
}

// Outcome is the result of a sign-in or sign-up attempt.
type Outcome struct {
	User          models.User
	Authenticated bool
	// Migrated is how many anonymous favorites were uploaded.
	Migrated int
	// Confirmed is set when a pending heart tap was kept.
	Confirmed models.FavoriteID
	// Redirect is where the screen navigated after confirming, or "".
	Redirect string
	Err      error
}

// AuthScreen is one visit to the profile screen.
//
// Mounting opens the gate; [AuthScreen.Unmount] closes it. Everything between is sign-in, sign-up and sign-out.
type AuthScreen struct {
	opts   AuthScreenOpts
	params Params
	gate   *gate.Gate
	logger *log.Logger

	mu      sync.Mutex
	mounted bool
}

// MountAuthScreen opens the profile screen for the given navigation parameters.
func MountAuthScreen(opts AuthScreenOpts, params Params) *AuthScreen {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string) {})
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New()
	}

	logger := shared.WithLogger(opts.Logger, "component", "auth")
	return &AuthScreen{
		opts:    opts,
		params:  params,
		gate:    gate.Open(opts.Store, opts.Ledger, params.EventID, opts.Logger),
		logger:  logger,
		mounted: true,
	}
}

// Params returns the navigation parameters the screen was mounted with.
func (s *AuthScreen) Params() Params { return s.params }

// Gate returns the screen's gate.
func (s *AuthScreen) Gate() *gate.Gate { return s.gate }

// User returns the persisted identity.
func (s *AuthScreen) User() (models.User, bool) { return s.opts.Store.User() }

// PendingEvent returns the catalog entry the open gate is holding.
func (s *AuthScreen) PendingEvent() (models.Event, bool) {
	entry, ok := s.gate.Entry()
	if !ok {
		return models.Event{}, false
	}
	if ev, found := s.opts.Catalog.Find(entry.EventID); found {
		return ev, true
	}
	return models.Event{ID: entry.EventID}, true
}

// SignIn authenticates with email and password and, on success, migrates and confirms.
func (s *AuthScreen) SignIn(ctx context.Context, email, password string) Outcome {
	user, err := s.opts.Auth.SignIn(ctx, email, password)
	if err != nil {
		return s.fail(err, "Sign in failed", msgInvalidCredentials)
	}
	s.opts.Notifier.Notify(Notification{Level: LevelSuccess, Title: "Signed in", Description: "Welcome back, " + user.Name + "."})
	return s.complete(ctx, user)
}

// SignUp creates an account and, on success, migrates and confirms.
func (s *AuthScreen) SignUp(ctx context.Context, name, email, password string) Outcome {
	user, err := s.opts.Auth.SignUp(ctx, name, email, password)
	if err != nil {
		return s.fail(err, "Sign up failed", msgSignUpFailed)
	}
	s.opts.Notifier.Notify(Notification{Level: LevelSuccess, Title: "Account created", Description: "Welcome, " + user.Name + "."})
	return s.complete(ctx, user)
}

// SignOut drops the persisted identity. The ledger and the gate are untouched.
func (s *AuthScreen) SignOut() error {
	if err := s.opts.Store.ClearUser(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
	}
	s.opts.Notifier.Notify(Notification{Level: LevelInfo, Title: "Signed out"})
	s.logger.Info("signed out")
	return nil
}

// Unmount closes the gate and reports how it ended. Later calls return the same state.
func (s *AuthScreen) Unmount() gate.State {
	s.mu.Lock()
	s.mounted = false
	s.mu.Unlock()
	return s.gate.Close()
}

func (s *AuthScreen) fail(err error, title, fallback string) Outcome {
	desc := services.ServerMessage(err)
	switch {
	case errors.Is(err, shared.ErrBackendDown):
		desc = msgBackendDown
	case desc == "":
		desc = fallback
	}
	s.logger.Warn(title, "error", err)
	s.opts.Notifier.Notify(Notification{Level: LevelError, Title: title, Description: desc})
	return Outcome{Err: err}
}

// complete runs the migration, then persists the identity and confirms a pending favorite intent.
func (s *AuthScreen) complete(ctx context.Context, user models.User) Outcome {
	out := Outcome{User: user, Authenticated: true}

	if s.opts.Migrator != nil {
		n, err := s.opts.Migrator.Migrate(ctx, user.ID)
		if err != nil {
			s.logger.Warn("continuing sign-in without migration", "user", user.ID, "error", err)
		}
		out.Migrated = n
	}

	user.AuthenticatedAt = s.opts.Now().UnixMilli()
	if err := s.opts.Store.SetUser(user); err != nil {
		s.logger.Error("failed to persist identity", "user", user.ID, "error", err)
		out.Err = fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
		return out
	}
	out.User = user
	s.logger.Info("signed in", "user", user.ID)

	if !s.params.FavoriteIntent() {
		return out
	}
	entry, ok := s.gate.Entry()
	if !ok {
		return out
	}

	if err := s.opts.Store.SetConfirmedEvent(entry.EventID); err != nil {
		s.logger.Error("failed to write confirmation marker", "event", entry.EventID, "error", err)
		out.Err = fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
		return out
	}
	out.Confirmed = entry.EventID

	desc := "Saved to your favorites."
	if ev, found := s.opts.Catalog.Find(entry.EventID); found && ev.Title != "" {
		desc = "Saved “" + ev.Title + "” to your favorites."
	}
	s.opts.Notifier.Notify(Notification{Level: LevelSuccess, Title: "Saved", Description: desc})

	out.Redirect = s.params.Origin()
	if out.Redirect == "" {
		out.Redirect = HomePath
	}
	s.opts.Navigator.Navigate(out.Redirect)
	return out
}

// Mounted reports whether [AuthScreen.Unmount] has not run yet.
func (s *AuthScreen) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}
