package reconcile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

func TestMigrator(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ledger makes no call", func(t *testing.T) {
		f := newFixture(t)
		m := NewMigrator(f.ledger, f.remote, f.client, shared.NewLogger(io.Discard))

		n, err := m.Migrate(ctx, 7)
		if err != nil || n != 0 {
			t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
		}
		if f.remote.Calls("bulk") != 0 {
			t.Error("expected no bulk call")
		}
	})

	t.Run("uploads every id and clears the ledger", func(t *testing.T) {
		f := newFixture(t)
		_ = f.ledger.SetFavorite("A", true)
		_ = f.ledger.SetFavorite("B", true)
		m := NewMigrator(f.ledger, f.remote, f.client, shared.NewLogger(io.Discard))

		n, err := m.Migrate(ctx, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 migrated, got %d", n)
		}
		if f.remote.Calls("bulk") != 1 {
			t.Errorf("expected one bulk call, got %d", f.remote.Calls("bulk"))
		}
		if f.ledger.All().Len() != 0 {
			t.Errorf("expected empty ledger, got %v", f.ledger.All().Strings())
		}
		if _, ok := f.mem.Get("niagara:tempFavorites"); ok {
			t.Error("expected ledger key removed")
		}

		set, err := f.client.Read(ctx, 7)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if !set.Equal(ids("A", "B")) {
			t.Errorf("expected server set {A,B}, got %v", set.Strings())
		}
	})

	t.Run("invalidates a cached set", func(t *testing.T) {
		f := newFixture(t)
		f.remote.Seed(7, "Z")
		if _, err := f.client.Read(ctx, 7); err != nil {
			t.Fatalf("warm read failed: %v", err)
		}
		_ = f.ledger.SetFavorite("A", true)

		m := NewMigrator(f.ledger, f.remote, f.client, shared.NewLogger(io.Discard))
		if _, err := m.Migrate(ctx, 7); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		set, _ := f.client.Read(ctx, 7)
		if !set.Equal(ids("A", "Z")) {
			t.Errorf("expected refetched {A,Z}, got %v", set.Strings())
		}
	})

	t.Run("failure keeps the ledger", func(t *testing.T) {
		f := newFixture(t)
		_ = f.ledger.SetFavorite("A", true)
		f.remote.BulkErr = errors.New("boom")
		m := NewMigrator(f.ledger, f.remote, f.client, shared.NewLogger(io.Discard))

		n, err := m.Migrate(ctx, 7)
		if !errors.Is(err, shared.ErrFavoritesBulk) {
			t.Fatalf("expected ErrFavoritesBulk, got %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 migrated, got %d", n)
		}
		if !f.ledger.IsFavorite(models.FavoriteID("A")) {
			t.Error("expected ledger untouched")
		}
	})

	t.Run("rejects a missing user", func(t *testing.T) {
		f := newFixture(t)
		m := NewMigrator(f.ledger, f.remote, nil, nil)
		if _, err := m.Migrate(ctx, 0); !errors.Is(err, shared.ErrNotSignedIn) {
			t.Errorf("expected ErrNotSignedIn, got %v", err)
		}
	})
}
