package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/gate"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
)

// DefaultNavDelay is how long a signed-out tap waits before opening the profile screen.
const DefaultNavDelay = 300 * time.Millisecond

// HeartOpts are the collaborators of a [Heart].
type HeartOpts struct {
	Store     *store.Store
	Ledger    *favorites.Ledger
	Client    *favorites.Client
	Notifier  Notifier
	Navigator Navigator
	Delay     time.Duration
	Now       func() time.Time
	Logger    *log.Logger
}

// Heart is the favorite toggle shown on every event.
type Heart struct {
	opts   HeartOpts
	logger *log.Logger

	mu      sync.Mutex
	pending *Deferred
}

// NewHeart creates a [Heart].
func NewHeart(opts HeartOpts) *Heart {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultNavDelay
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string) {})
	}
	return &Heart{opts: opts, logger: shared.WithLogger(opts.Logger, "component", "heart")}
}

// Saved reports whether id is a favorite in the current source.
func (h *Heart) Saved(ctx context.Context, id models.FavoriteID) bool {
	return favorites.SelectSource(h.opts.Store, h.opts.Ledger, h.opts.Client).IsFavorite(ctx, id)
}

// Authenticated reports whether [Heart.Tap] goes through the optimistic client rather than the ledger.
func (h *Heart) Authenticated() bool {
	_, ok := h.opts.Store.User()
	return ok && h.opts.Client != nil
}

// Tap toggles id and returns its new membership. from is the location of the screen the tap happened on.
//
// Signed out, the ledger flips at once, the gate is armed with the prior membership and the profile screen opens
// after the configured delay. Taps made while that navigation is pending are ignored.
// Signed in, the toggle goes through the optimistic client and failures surface as notifications.
func (h *Heart) Tap(ctx context.Context, id models.FavoriteID, from string) (bool, error) {
	if user, ok := h.opts.Store.User(); ok && h.opts.Client != nil {
		return h.tapAuthenticated(ctx, user, id)
	}
	return h.tapAnonymous(id, from)
}

func (h *Heart) tapAnonymous(id models.FavoriteID, from string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending != nil && h.pending.Pending() {
		h.logger.Debug("ignoring tap while navigation is pending", "event", id)
		return h.opts.Ledger.IsFavorite(id), nil
	}

	prevSaved := h.opts.Ledger.IsFavorite(id)
	saved, err := h.opts.Ledger.ToggleFavorite(id)
	if err != nil {
		h.logger.Error("failed to toggle local favorite", "event", id, "error", err)
		return prevSaved, err
	}
	if err := gate.Arm(h.opts.Store, id, prevSaved, h.opts.Now()); err != nil {
		h.logger.Error("failed to store pending favorite", "event", id, "error", err)
		return saved, err
	}

	if from == "" {
		from = HomePath
	}
	to := ProfileURL(id, from)
	h.pending = Defer(h.opts.Delay, func() { h.opts.Navigator.Navigate(to) })
	h.logger.Debug("anonymous favorite toggled", "event", id, "saved", saved, "next", to)
	return saved, nil
}

func (h *Heart) tapAuthenticated(ctx context.Context, user models.User, id models.FavoriteID) (bool, error) {
	if _, err := h.opts.Client.Read(ctx, user.ID); err != nil {
		h.logger.Debug("favorites unavailable before toggle", "user", user.ID, "error", err)
	}

	saved, err := h.opts.Client.Toggle(ctx, user.ID, id)
	if err != nil {
		h.opts.Notifier.Notify(Notification{Level: LevelError, Title: "Could not update favorites", Description: describe(err)})
		return saved, err
	}

	title := "Removed"
	if saved {
		title = "Saved"
	}
	h.opts.Notifier.Notify(Notification{Level: LevelSuccess, Title: title})
	return saved, nil
}

// Pending returns the scheduled navigation of the last signed-out tap, or nil.
func (h *Heart) Pending() *Deferred {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}

// Close stops a scheduled navigation. The ledger and the stored gate entry stay as they are.
func (h *Heart) Close() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return false
	}
	return h.pending.Cancel()
}

func describe(err error) string {
	if errors.Is(err, shared.ErrBackendDown) {
		return msgBackendDown
	}
	if msg := services.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
