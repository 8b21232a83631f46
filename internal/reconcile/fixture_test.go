package reconcile

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
	tu "github.com/desertthunder/niagara/internal/testing"
)

type recorder struct {
	mu            sync.Mutex
	notifications []Notification
	navigations   []string
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) Navigate(to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, to)
}

func (r *recorder) lastNotification() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

func (r *recorder) lastNavigation() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navigations) == 0 {
		return ""
	}
	return r.navigations[len(r.navigations)-1]
}

func (r *recorder) navigationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.navigations)
}

type fixture struct {
	mem    *store.MemoryStorage
	store  *store.Store
	ledger *favorites.Ledger
	remote *tu.FakeFavorites
	auth   *tu.FakeAuth
	client *favorites.Client
	rec    *recorder
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	mem := store.NewMemoryStorage()
	st := store.New(mem, logger)
	remote := tu.NewFakeFavorites()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &fixture{
		mem:    mem,
		store:  st,
		ledger: favorites.NewLedger(st),
		remote: remote,
		auth:   &tu.FakeAuth{User: models.User{ID: 7, Name: "Ada", Email: "ada@example.com"}},
		client: favorites.NewClient(remote, favorites.ClientOpts{Logger: logger, Now: func() time.Time { return now }}),
		rec:    &recorder{},
		now:    now,
	}
}

func (f *fixture) heart() *Heart {
	return NewHeart(HeartOpts{
		Store:     f.store,
		Ledger:    f.ledger,
		Client:    f.client,
		Notifier:  f.rec,
		Navigator: f.rec,
		Delay:     time.Millisecond,
		Now:       func() time.Time { return f.now },
		Logger:    shared.NewLogger(io.Discard),
	})
}

func (f *fixture) mount(location string) *AuthScreen {
	logger := shared.NewLogger(io.Discard)
	_, params := ParseLocation(location)
	return MountAuthScreen(AuthScreenOpts{
		Store:     f.store,
		Ledger:    f.ledger,
		Auth:      f.auth,
		Migrator:  NewMigrator(f.ledger, f.remote, f.client, logger),
		Catalog:   catalog.New(),
		Notifier:  f.rec,
		Navigator: f.rec,
		Now:       func() time.Time { return f.now },
		Logger:    logger,
	}, params)
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	if err := f.store.SetUser(f.auth.User); err != nil {
		t.Fatalf("failed to persist user: %v", err)
	}
}

func waitFor(t *testing.T, d *Deferred) {
	t.Helper()
	if d == nil {
		t.Fatal("expected a scheduled navigation")
	}
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("navigation was not delivered")
	}
}

func ids(vs ...string) models.FavoriteSet {
	set := models.NewFavoriteSet()
	for _, v := range vs {
		set.Add(models.FavoriteID(v))
	}
	return set
}
