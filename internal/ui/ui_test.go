package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/gate"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
	tu "github.com/desertthunder/niagara/internal/testing"
)

type harness struct {
	m      *Model
	store  *store.Store
	ledger *favorites.Ledger
	remote *tu.FakeFavorites
}

func newHarness(t *testing.T, delay time.Duration) *harness {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	st := store.New(store.NewMemoryStorage(), logger)
	ledger := favorites.NewLedger(st)
	remote := tu.NewFakeFavorites()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := NewModel(ctx, Deps{
		Catalog:  catalog.New(),
		Store:    st,
		Ledger:   ledger,
		Client:   favorites.NewClient(remote, favorites.ClientOpts{Logger: logger}),
		Auth:     &tu.FakeAuth{User: models.User{ID: 7, Name: "Ada", Email: "ada@example.com"}},
		Remote:   remote,
		NavDelay: delay,
		Logger:   logger,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &harness{m: m, store: st, ledger: ledger, remote: remote}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// run executes cmd and feeds its message back into the model.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	h.m.Update(cmd())
}

// deliverNavigation waits for a navigation raised by the reconcile package and applies it.
func (h *harness) deliverNavigation(t *testing.T) string {
	t.Helper()
	select {
	case to := <-h.m.navCh:
		h.m.Update(navigateMsg(to))
		return to
	case <-time.After(2 * time.Second):
		t.Fatal("no navigation delivered")
		return ""
	}
}

func TestModel(t *testing.T) {
	first := catalog.New().All()[0].ID

	t.Run("signed-out heart opens the profile and esc reverts it", func(t *testing.T) {
		h := newHarness(t, time.Millisecond)

		_, cmd := h.m.Update(runes("h"))
		h.run(t, cmd)
		if !h.ledger.IsFavorite(first) {
			t.Fatalf("expected %s in the ledger", first)
		}

		to := h.deliverNavigation(t)
		if to != reconcile.ProfileURL(first, reconcile.HomePath) {
			t.Errorf("unexpected navigation %q", to)
		}
		if h.m.State() != ProfileView {
			t.Fatalf("expected profile view, got %v", h.m.State())
		}
		screen := h.m.Screen()
		if screen == nil || screen.Gate().State() != gate.GateOpen {
			t.Fatal("expected a mounted screen with an open gate")
		}

		h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if h.m.State() != EventsView {
			t.Errorf("expected events view, got %v", h.m.State())
		}
		if screen.Gate().State() != gate.Reverted {
			t.Errorf("expected reverted gate, got %v", screen.Gate().State())
		}
		if h.ledger.IsFavorite(first) {
			t.Error("expected the tap to be reverted")
		}
	})

	t.Run("switching view cancels the scheduled navigation", func(t *testing.T) {
		h := newHarness(t, time.Hour)

		_, cmd := h.m.Update(runes("h"))
		h.run(t, cmd)
		h.m.Update(runes("f"))

		if h.m.State() != FavoritesView {
			t.Fatalf("expected favorites view, got %v", h.m.State())
		}
		if d := h.m.heart.Pending(); d == nil || d.Pending() {
			t.Error("expected the navigation to be cancelled")
		}
		if !h.ledger.IsFavorite(first) {
			t.Error("expected the ledger write to stay")
		}
	})

	t.Run("signed-out heart is recorded before the next key is handled", func(t *testing.T) {
		h := newHarness(t, time.Hour)

		_, tapCmd := h.m.Update(runes("h"))
		h.m.Update(runes("p"))

		screen := h.m.Screen()
		if screen == nil {
			t.Fatal("expected a mounted profile screen")
		}
		entry, ok := screen.Gate().Entry()
		if !ok || entry.EventID != first || entry.PrevSaved {
			t.Fatalf("expected an open gate for %s with prevSaved false, got %+v (%v)", first, entry, ok)
		}
		if !h.ledger.IsFavorite(first) {
			t.Fatalf("expected %s in the ledger", first)
		}

		h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if screen.Gate().State() != gate.Reverted {
			t.Errorf("expected reverted gate, got %v", screen.Gate().State())
		}
		if h.ledger.IsFavorite(first) {
			t.Error("expected the tap to be reverted")
		}

		h.run(t, tapCmd)
		if h.ledger.IsFavorite(first) {
			t.Error("expected the late heart result to leave the ledger alone")
		}
	})

	t.Run("signing in from the profile keeps the tap and returns", func(t *testing.T) {
		h := newHarness(t, time.Millisecond)

		_, cmd := h.m.Update(runes("h"))
		h.run(t, cmd)
		h.deliverNavigation(t)
		screen := h.m.Screen()

		h.m.form.inputs[0].SetValue("ada@example.com")
		h.m.form.inputs[1].SetValue("secret")
		h.m.form.setFocus(1)
		_, cmd = h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		h.run(t, cmd)

		if to := h.deliverNavigation(t); to != reconcile.HomePath {
			t.Errorf("expected return to %s, got %q", reconcile.HomePath, to)
		}
		if h.m.State() != EventsView {
			t.Errorf("expected events view, got %v", h.m.State())
		}
		if screen.Gate().State() != gate.Resolved {
			t.Errorf("expected resolved gate, got %v", screen.Gate().State())
		}
		if !h.remote.Server(7).Has(first) {
			t.Error("expected the tap migrated to the account")
		}
		if _, ok := h.store.User(); !ok {
			t.Error("expected a persisted identity")
		}
	})

	t.Run("sign-up form rejects mismatched passwords", func(t *testing.T) {
		h := newHarness(t, time.Millisecond)
		h.m.Update(runes("p"))
		h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		if h.m.form.mode != modeSignUp {
			t.Fatal("expected sign-up mode")
		}

		h.m.form.inputs[0].SetValue("Ada")
		h.m.form.inputs[1].SetValue("ada@example.com")
		h.m.form.inputs[2].SetValue("secret")
		h.m.form.inputs[3].SetValue("other")
		h.m.form.setFocus(3)
		_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		if cmd != nil {
			t.Error("expected no request for an invalid form")
		}
		if h.m.form.err != "passwords do not match" {
			t.Errorf("unexpected form error %q", h.m.form.err)
		}
	})

	t.Run("notifications are shown in the footer", func(t *testing.T) {
		h := newHarness(t, time.Millisecond)
		h.m.Update(notifyMsg(reconcile.Notification{Level: reconcile.LevelSuccess, Title: "Saved"}))
		if view := h.m.View(); !containsAll(view, "Saved", "Events") {
			t.Errorf("expected notification and tabs in view:\n%s", view)
		}
	})
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
