package favorites

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleAfter is how long a fetched set is served without asking the backend again.
const DefaultStaleAfter = 10 * time.Second

// State is a snapshot of one user's cached favorites.
type State struct {
	Favorites models.FavoriteSet
	Loaded    bool
	Loading   bool
	Toggling  bool
	Err       error
	FetchedAt time.Time
}

type cacheEntry struct {
	set       models.FavoriteSet
	loaded    bool
	fetchedAt time.Time
	stale     bool
	loading   int
	toggling  int
	err       error
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	StaleAfter time.Duration
	Now        func() time.Time
	Logger     *log.Logger
}

// Client caches each signed-in user's favorites and applies toggles optimistically.
//
// The cache lock is never held across a remote call.
type Client struct {
	remote     services.FavoritesAPI
	staleAfter time.Duration
	now        func() time.Time
	logger     *log.Logger

	mu    sync.Mutex
	cache map[int64]*cacheEntry
	group singleflight.Group
}

// NewClient creates a [Client] over remote.
func NewClient(remote services.FavoritesAPI, opts ClientOpts) *Client {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		remote:     remote,
		staleAfter: opts.StaleAfter,
		now:        opts.Now,
		logger:     shared.WithLogger(opts.Logger, "component", "favorites"),
		cache:      make(map[int64]*cacheEntry),
	}
}

func (c *Client) entry(userID int64) *cacheEntry {
	e, ok := c.cache[userID]
	if !ok {
		e = &cacheEntry{set: models.NewFavoriteSet()}
		c.cache[userID] = e
	}
	return e
}

// Read returns the user's favorites, fetching when the cached copy is missing, invalidated or older than the
// freshness window. A userID of zero or less means nobody is signed in: Read returns an empty set without a request.
//
// On fetch failure the last cached set is returned together with the error.
func (c *Client) Read(ctx context.Context, userID int64) (models.FavoriteSet, error) {
	if userID <= 0 {
		return models.NewFavoriteSet(), nil
	}

	c.mu.Lock()
	e := c.entry(userID)
	if e.loaded && !e.stale && c.now().Sub(e.fetchedAt) < c.staleAfter {
		set := e.set.Clone()
		c.mu.Unlock()
		return set, nil
	}
	c.mu.Unlock()

	return c.fetch(ctx, userID)
}

// Refresh fetches unconditionally.
func (c *Client) Refresh(ctx context.Context, userID int64) (models.FavoriteSet, error) {
	if userID <= 0 {
		return models.NewFavoriteSet(), nil
	}
	return c.fetch(ctx, userID)
}

func flightKey(userID int64) string { return strconv.FormatInt(userID, 10) }

// fetch collapses concurrent fetches for the same user into one remote call.
func (c *Client) fetch(ctx context.Context, userID int64) (models.FavoriteSet, error) {
	v, err, _ := c.group.Do(flightKey(userID), func() (any, error) {
		c.mu.Lock()
		c.entry(userID).loading++
		c.mu.Unlock()

		ids, err := c.remote.List(ctx, userID)

		c.mu.Lock()
		defer c.mu.Unlock()
		e := c.entry(userID)
		e.loading--
		if err != nil {
			e.err = err
			c.logger.Warn("failed to fetch favorites", "user", userID, "error", err)
			return e.set.Clone(), err
		}

		e.set = models.NewFavoriteSet(ids...)
		e.loaded = true
		e.stale = false
		e.err = nil
		e.fetchedAt = c.now()
		return e.set.Clone(), nil
	})

	set, _ := v.(models.FavoriteSet)
	if set == nil {
		set = models.NewFavoriteSet()
	}
	return set, err
}

// IsFavorite answers from the cache without a request.
func (c *Client) IsFavorite(userID int64, id models.FavoriteID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[userID]
	return ok && e.set.Has(id)
}

// State returns a snapshot of the user's cache entry.
func (c *Client) State(userID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[userID]
	if !ok {
		return State{Favorites: models.NewFavoriteSet()}
	}
	return State{
		Favorites: e.set.Clone(),
		Loaded:    e.loaded,
		Loading:   e.loading > 0,
		Toggling:  e.toggling > 0,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
	}
}

// Invalidate marks the user's cached set stale so the next [Client.Read] fetches.
func (c *Client) Invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cache[userID]; ok {
		e.stale = true
	}
}

func (c *Client) snapshot(userID int64) models.FavoriteSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(userID).set.Clone()
}

func (c *Client) install(userID int64, set models.FavoriteSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry(userID).set = set
}

// Toggle flips eventID for the user and returns the membership it asked the backend for.
//
// The target is computed from the cached set, not the server. The flip is visible in the cache before the request
// is sent; a failed request restores the exact prior set. Either way the set is re-fetched afterwards.
// Calling Toggle while signed out fails fast with [shared.ErrNotSignedIn].
func (c *Client) Toggle(ctx context.Context, userID int64, eventID models.FavoriteID) (bool, error) {
	if userID <= 0 {
		return false, shared.ErrNotSignedIn
	}

	c.mu.Lock()
	c.entry(userID).toggling++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.entry(userID).toggling--
		c.mu.Unlock()
	}()

	var target bool
	err := Run(ctx, Mutation[models.FavoriteSet]{
		Get: func() models.FavoriteSet { return c.snapshot(userID) },
		Set: func(set models.FavoriteSet) { c.install(userID, set) },
		Apply: func(prior models.FavoriteSet) models.FavoriteSet {
			next := prior.Clone()
			target = !prior.Has(eventID)
			if target {
				next.Add(eventID)
			} else {
				next.Remove(eventID)
			}
			return next
		},
		Effect: func(ctx context.Context) error {
			if target {
				return c.remote.Add(ctx, userID, eventID)
			}
			return c.remote.Remove(ctx, userID, eventID)
		},
		Sync: func(ctx context.Context) {
			c.Invalidate(userID)
			c.group.Forget(flightKey(userID))
			_, _ = c.fetch(ctx, userID)
		},
	})
	if err != nil {
		return !target, fmt.Errorf("toggle %s: %w", eventID, err)
	}
	return target, nil
}
