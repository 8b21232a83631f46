package store

import (
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenMigrated(":memory:", 1, 1)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	return New(storage, shared.NewLogger(io.Discard))
}

func TestStorageBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage() },
		"sqlite": func(t *testing.T) Storage { return NewSQLiteStorage(setupTestDB(t), shared.NewLogger(io.Discard)) },
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key is absent", func(t *testing.T) {
				s := build(t)
				if _, ok := s.Get("nope"); ok {
					t.Error("expected missing key")
				}
			})

			t.Run("set then get", func(t *testing.T) {
				s := build(t)
				if err := s.Set("k", "v1"); err != nil {
					t.Fatalf("set failed: %v", err)
				}
				if err := s.Set("k", "v2"); err != nil {
					t.Fatalf("overwrite failed: %v", err)
				}
				if v, ok := s.Get("k"); !ok || v != "v2" {
					t.Errorf("got %q, %v", v, ok)
				}
			})

			t.Run("remove is idempotent", func(t *testing.T) {
				s := build(t)
				_ = s.Set("k", "v")
				if err := s.Remove("k"); err != nil {
					t.Fatalf("remove failed: %v", err)
				}
				if err := s.Remove("k"); err != nil {
					t.Fatalf("second remove failed: %v", err)
				}
				if _, ok := s.Get("k"); ok {
					t.Error("expected key to be gone")
				}
			})
		})
	}

	t.Run("sqlite values survive a new storage over the same database", func(t *testing.T) {
		db := setupTestDB(t)
		first := newTestStore(t, NewSQLiteStorage(db, nil))
		if err := first.SetTempFavorites(models.NewFavoriteSet("1", "2")); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		second := newTestStore(t, NewSQLiteStorage(db, nil))
		if got := second.TempFavorites(); !got.Equal(models.NewFavoriteSet("1", "2")) {
			t.Errorf("expected {1,2}, got %v", got.Strings())
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("TempFavorites", func(t *testing.T) {
		t.Run("absent key yields empty set", func(t *testing.T) {
			st := newTestStore(t, NewMemoryStorage())
			if got := st.TempFavorites(); got.Len() != 0 {
				t.Errorf("expected empty set, got %v", got.Strings())
			}
		})

		t.Run("malformed json yields empty set", func(t *testing.T) {
			mem := NewMemoryStorage()
			_ = mem.Set(TempFavoritesKey, "{not json")
			st := newTestStore(t, mem)
			if got := st.TempFavorites(); got.Len() != 0 {
				t.Errorf("expected empty set, got %v", got.Strings())
			}
		})

		t.Run("numeric ids are normalized", func(t *testing.T) {
			mem := NewMemoryStorage()
			_ = mem.Set(TempFavoritesKey, `[1, "2"]`)
			st := newTestStore(t, mem)
			if got := st.TempFavorites(); !got.Equal(models.NewFavoriteSet("1", "2")) {
				t.Errorf("expected {1,2}, got %v", got.Strings())
			}
		})

		t.Run("UpdateTempFavorites persists the mutation", func(t *testing.T) {
			mem := NewMemoryStorage()
			st := newTestStore(t, mem)
			if _, err := st.UpdateTempFavorites(func(s models.FavoriteSet) { s.Add("3") }); err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if raw, _ := mem.Get(TempFavoritesKey); raw != `["3"]` {
				t.Errorf("expected persisted [\"3\"], got %s", raw)
			}
		})

		t.Run("ClearTempFavorites removes the key", func(t *testing.T) {
			mem := NewMemoryStorage()
			st := newTestStore(t, mem)
			_ = st.SetTempFavorites(models.NewFavoriteSet("1"))
			if err := st.ClearTempFavorites(); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			if _, ok := mem.Get(TempFavoritesKey); ok {
				t.Error("expected ledger key to be removed")
			}
		})
	})

	t.Run("PendingFavorite", func(t *testing.T) {
		t.Run("round trip", func(t *testing.T) {
			st := newTestStore(t, NewMemoryStorage())
			want := models.NewPendingFavorite("3", false, time.UnixMilli(42))
			if err := st.SetPendingFavorite(want); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			got, ok := st.PendingFavorite()
			if !ok || got != want {
				t.Errorf("got %+v, %v", got, ok)
			}
		})

		t.Run("entry without event id is absent", func(t *testing.T) {
			mem := NewMemoryStorage()
			_ = mem.Set(PendingFavoriteKey, `{"prevSaved": true}`)
			if _, ok := newTestStore(t, mem).PendingFavorite(); ok {
				t.Error("expected no entry")
			}
		})

		t.Run("numeric event id is normalized", func(t *testing.T) {
			mem := NewMemoryStorage()
			_ = mem.Set(PendingFavoriteKey, `{"eventId": 3, "prevSaved": true}`)
			got, ok := newTestStore(t, mem).PendingFavorite()
			if !ok || got.EventID != "3" || !got.PrevSaved {
				t.Errorf("got %+v, %v", got, ok)
			}
		})

		t.Run("malformed entry is absent", func(t *testing.T) {
			mem := NewMemoryStorage()
			_ = mem.Set(PendingFavoriteKey, `[`)
			if _, ok := newTestStore(t, mem).PendingFavorite(); ok {
				t.Error("expected no entry")
			}
		})
	})

	t.Run("Confirmation", func(t *testing.T) {
		mem := NewMemoryStorage()
		st := newTestStore(t, mem)

		if _, ok := st.ConfirmedEvent(); ok {
			t.Error("expected no marker initially")
		}
		_ = st.SetConfirmedEvent("3")
		_ = mem.Set(LegacyConfirmedKey, "1")

		if id, ok := st.ConfirmedEvent(); !ok || id != "3" {
			t.Errorf("got %q, %v", id, ok)
		}
		if !st.LegacyConfirmed() {
			t.Error("expected legacy flag")
		}

		if err := st.ClearConfirmation(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if _, ok := mem.Get(ConfirmedEventKey); ok {
			t.Error("marker should be cleared")
		}
		if st.LegacyConfirmed() {
			t.Error("legacy flag should be cleared")
		}

		t.Run("legacy flag only counts when set to 1", func(t *testing.T) {
			_ = mem.Set(LegacyConfirmedKey, "true")
			if st.LegacyConfirmed() {
				t.Error("expected legacy flag to be ignored")
			}
		})
	})

	t.Run("User", func(t *testing.T) {
		t.Run("round trip", func(t *testing.T) {
			st := newTestStore(t, NewMemoryStorage())
			want := models.User{ID: 7, Name: "Ada", Email: "ada@example.com", AuthenticatedAt: 99}
			if err := st.SetUser(want); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			got, ok := st.User()
			if !ok || got != want {
				t.Errorf("got %+v, %v", got, ok)
			}
		})

		t.Run("rejects invalid identity on write", func(t *testing.T) {
			st := newTestStore(t, NewMemoryStorage())
			err := st.SetUser(models.User{ID: 0, Name: "Ada", Email: "ada@example.com"})
			if !errors.Is(err, shared.ErrInvalidIdentity) {
				t.Errorf("expected ErrInvalidIdentity, got %v", err)
			}
		})

		tc := []struct {
			name string
			raw  string
		}{
			{name: "malformed json", raw: `{"id":`},
			{name: "string id", raw: `{"id":"7","name":"Ada","email":"a@b.c"}`},
			{name: "fractional id", raw: `{"id":7.5,"name":"Ada","email":"a@b.c"}`},
			{name: "missing name", raw: `{"id":7,"email":"a@b.c"}`},
			{name: "empty email", raw: `{"id":7,"name":"Ada","email":""}`},
		}
		for _, tt := range tc {
			t.Run("treats "+tt.name+" as signed out", func(t *testing.T) {
				mem := NewMemoryStorage()
				_ = mem.Set(UserKey, tt.raw)
				if _, ok := newTestStore(t, mem).User(); ok {
					t.Error("expected no identity")
				}
			})
		}

		t.Run("ClearUser signs out", func(t *testing.T) {
			st := newTestStore(t, NewMemoryStorage())
			_ = st.SetUser(models.User{ID: 1, Name: "Ada", Email: "ada@example.com"})
			_ = st.ClearUser()
			if _, ok := st.User(); ok {
				t.Error("expected no identity after sign out")
			}
		})
	})
}
