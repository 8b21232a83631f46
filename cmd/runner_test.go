package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/desertthunder/niagara/internal/store"
	tu "github.com/desertthunder/niagara/internal/testing"
	"github.com/urfave/cli/v3"
)

type harness struct {
	runner  *Runner
	output  *bytes.Buffer
	storage *store.MemoryStorage
	remote  *tu.FakeFavorites
	auth    *tu.FakeAuth
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	config := shared.DefaultConfig()
	config.Favorites.NavDelayMS = 1

	h := &harness{
		output:  &bytes.Buffer{},
		storage: store.NewMemoryStorage(),
		remote:  tu.NewFakeFavorites(),
		auth:    &tu.FakeAuth{User: models.User{ID: 7, Name: "Ada", Email: "ada@example.com"}},
	}
	h.runner = NewRunner(RunnerOpts{
		Config:  config,
		Logger:  shared.NewLogger(io.Discard),
		Output:  h.output,
		Now:     func() time.Time { return time.UnixMilli(1_700_000_000_000) },
		Storage: h.storage,
		Remote:  h.remote,
		Auth:    h.auth,
	})
	return h
}

func (h *harness) run(args ...string) error {
	app := &cli.Command{
		Name:      "niagara",
		Flags:     globalFlags(),
		Before:    h.runner.Before,
		Commands:  h.runner.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"niagara", "--config", ""}, args...))
}

func (h *harness) store() *store.Store {
	return store.New(h.storage, nil)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			storage := store.NewMemoryStorage()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Storage:    storage,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.storage != storage {
				t.Error("expected storage to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.catalog == nil || runner.now == nil {
				t.Error("expected catalog and clock defaults")
			}
		})

		t.Run("does not open the store until a command needs it", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.store != nil || runner.db != nil {
				t.Error("expected no store before open")
			}
			if err := runner.Close(); err != nil {
				t.Errorf("expected Close without open to succeed, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "events", "heart", "favorites", "gate", "profile", "signin", "signup", "signout", "whoami", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("loads the config file when it exists", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			contents := "[favorites]\nnav_delay_ms = 5\n\n[store]\npath = \"./custom.db\"\n"
			if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			h := newHarness(t)
			app := &cli.Command{Name: "niagara", Flags: globalFlags(), Before: h.runner.Before, Action: func(context.Context, *cli.Command) error { return nil }}
			if err := app.Run(context.Background(), []string{"niagara", "--config", path, "--debug"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if h.runner.config.Favorites.NavDelayMS != 5 {
				t.Errorf("expected nav delay from file, got %d", h.runner.config.Favorites.NavDelayMS)
			}
			if h.runner.config.Store.Path != "./custom.db" {
				t.Errorf("expected store path from file, got %s", h.runner.config.Store.Path)
			}
			if h.runner.config.API.BaseURL == "" {
				t.Error("expected unset keys to keep their defaults")
			}
		})

		t.Run("keeps defaults when the file is missing", func(t *testing.T) {
			h := newHarness(t)
			before := h.runner.config
			app := &cli.Command{Name: "niagara", Flags: globalFlags(), Before: h.runner.Before, Action: func(context.Context, *cli.Command) error { return nil }}
			if err := app.Run(context.Background(), []string{"niagara", "--config", filepath.Join(t.TempDir(), "missing.toml"), "--ephemeral"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if h.runner.config != before {
				t.Error("expected config to be unchanged")
			}
			if !h.runner.ephemeral {
				t.Error("expected --ephemeral to be recorded")
			}
		})
	})
}

func TestCommands(t *testing.T) {
	t.Run("setup config writes the template once", func(t *testing.T) {
		h := newHarness(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		app := &cli.Command{Name: "niagara", Flags: globalFlags(), Before: h.runner.Before, Commands: h.runner.register(), Writer: io.Discard, ErrWriter: io.Discard}
		if err := app.Run(context.Background(), []string{"niagara", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "[favorites]") {
			t.Error("expected the template contents")
		}

		app = &cli.Command{Name: "niagara", Flags: globalFlags(), Before: h.runner.Before, Commands: h.runner.register(), Writer: io.Discard, ErrWriter: io.Discard}
		if err := app.Run(context.Background(), []string{"niagara", "--config", path, "setup", "config"}); err == nil {
			t.Error("expected an error when the file already exists")
		}
	})

	t.Run("events", func(t *testing.T) {
		t.Run("marks ledger favorites while signed out", func(t *testing.T) {
			h := newHarness(t)
			h.store().SetTempFavorites(models.NewFavoriteSet("2"))

			if err := h.run("events", "--format", "json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var rows []struct {
				ID    string `json:"id"`
				Saved bool   `json:"saved"`
			}
			if err := json.Unmarshal(h.output.Bytes(), &rows); err != nil {
				t.Fatalf("expected JSON output, got %v: %s", err, h.output.String())
			}
			if len(rows) != 6 {
				t.Fatalf("expected 6 events, got %d", len(rows))
			}
			for _, r := range rows {
				if r.Saved != (r.ID == "2") {
					t.Errorf("event %s: saved = %t", r.ID, r.Saved)
				}
			}
		})

		t.Run("reads the server set while signed in", func(t *testing.T) {
			h := newHarness(t)
			h.store().SetUser(h.auth.User)
			h.remote.Seed(7, "4")

			if err := h.run("events", "--category", "Music", "--format", "csv"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out := h.output.String()
			if !strings.Contains(out, "Jazz by the Vineyard") || strings.Contains(out, "Comedy Night Live") {
				t.Errorf("expected only music events, got %s", out)
			}
			if h.remote.Calls("list") != 1 {
				t.Errorf("expected one list call, got %d", h.remote.Calls("list"))
			}
		})

		t.Run("rejects an unknown format", func(t *testing.T) {
			h := newHarness(t)
			if err := h.run("events", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})

		t.Run("writes to a file with --output", func(t *testing.T) {
			h := newHarness(t)
			path := filepath.Join(t.TempDir(), "events.md")
			if err := h.run("events", "--format", "md", "--output", path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(tu.MustReadFile(t, path), "Niagara Music Festival") {
				t.Error("expected events in the file")
			}
			if h.output.Len() != 0 {
				t.Errorf("expected nothing on stdout, got %q", h.output.String())
			}
		})
	})

	t.Run("heart", func(t *testing.T) {
		t.Run("signed out stores the tap and prints the profile location", func(t *testing.T) {
			h := newHarness(t)

			if err := h.run("heart", "--from", "/events", "3"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			st := h.store()
			if !st.TempFavorites().Has("3") {
				t.Error("expected the ledger to hold the tap")
			}
			entry, ok := st.PendingFavorite()
			if !ok || entry.EventID != "3" || entry.PrevSaved {
				t.Errorf("expected pending entry for 3, got %+v (%t)", entry, ok)
			}
			if want := reconcile.ProfileURL("3", "/events"); !strings.Contains(h.output.String(), want) {
				t.Errorf("expected %q in output, got %q", want, h.output.String())
			}
		})

		t.Run("signed in toggles the server set", func(t *testing.T) {
			h := newHarness(t)
			h.store().SetUser(h.auth.User)

			if err := h.run("heart", "5"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !h.remote.Server(7).Has("5") {
				t.Error("expected 5 on the server")
			}
			if _, ok := h.store().PendingFavorite(); ok {
				t.Error("expected no gate entry for a signed-in tap")
			}
			if !strings.Contains(h.output.String(), "✓ Saved") {
				t.Errorf("expected a saved toast, got %q", h.output.String())
			}
		})

		t.Run("requires an event id", func(t *testing.T) {
			h := newHarness(t)
			if err := h.run("heart"); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("signin after a heart tap keeps the favorite and returns", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("heart", "--from", "/events", "2"); err != nil {
			t.Fatalf("heart: %v", err)
		}
		h.output.Reset()

		if err := h.run("signin", "--email", "ada@example.com", "--password", "pw", "--url", reconcile.ProfileURL("2", "/events")); err != nil {
			t.Fatalf("signin: %v", err)
		}

		if !h.remote.Server(7).Has("2") {
			t.Error("expected the tap to be uploaded")
		}
		st := h.store()
		if st.TempFavorites().Len() != 0 {
			t.Error("expected the ledger to be cleared")
		}
		if _, ok := st.PendingFavorite(); ok {
			t.Error("expected the gate entry to be cleared")
		}
		if _, ok := st.ConfirmedEvent(); ok {
			t.Error("expected the marker to be cleared on unmount")
		}
		if _, ok := st.User(); !ok {
			t.Error("expected the user to be persisted")
		}

		out := h.output.String()
		for _, want := range []string{"Signed in", "Saved “Falls Wine & Dine” to your favorites.", "resolved", "→ /events", "Uploaded 1 favorites"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("profile without signing in reverts the tap", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("heart", "4"); err != nil {
			t.Fatalf("heart: %v", err)
		}
		h.output.Reset()

		if err := h.run("profile", "--url", reconcile.ProfileURL("4", "/")); err != nil {
			t.Fatalf("profile: %v", err)
		}

		st := h.store()
		if st.TempFavorites().Has("4") {
			t.Error("expected the tap to be reverted")
		}
		if _, ok := st.PendingFavorite(); ok {
			t.Error("expected the gate entry to be cleared")
		}
		if !strings.Contains(h.output.String(), "reverted") {
			t.Errorf("expected the gate outcome, got %q", h.output.String())
		}
	})

	t.Run("failed signin reports the server message and reverts", func(t *testing.T) {
		h := newHarness(t)
		h.auth.Err = shared.ErrAuthFailed
		if err := h.run("heart", "1"); err != nil {
			t.Fatalf("heart: %v", err)
		}

		err := h.run("signin", "--email", "ada@example.com", "--password", "nope", "--url", reconcile.ProfileURL("1", "/"))
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if h.store().TempFavorites().Has("1") {
			t.Error("expected the tap to be reverted")
		}
		if !strings.Contains(h.output.String(), "Sign in failed: Invalid credentials.") {
			t.Errorf("expected failure toast, got %q", h.output.String())
		}
	})

	t.Run("signup checks the confirmation before calling the backend", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("signup", "--name", "Ada", "--email", "ada@example.com", "--password", "a", "--confirm", "b")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if h.auth.Calls != 0 {
			t.Errorf("expected no auth calls, got %d", h.auth.Calls)
		}
	})

	t.Run("signin rejects a location outside the profile screen", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("signin", "--email", "a@b.c", "--password", "pw", "--url", "/events")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("whoami and signout", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("whoami"); !errors.Is(err, shared.ErrNotSignedIn) {
			t.Errorf("expected ErrNotSignedIn, got %v", err)
		}

		h.store().SetUser(h.auth.User)
		if err := h.run("whoami"); err != nil {
			t.Fatalf("whoami: %v", err)
		}
		if !strings.Contains(h.output.String(), "Ada <ada@example.com>") {
			t.Errorf("expected the user, got %q", h.output.String())
		}

		if err := h.run("signout"); err != nil {
			t.Fatalf("signout: %v", err)
		}
		if _, ok := h.store().User(); ok {
			t.Error("expected the user to be cleared")
		}
	})

	t.Run("gate reports the pending entry as JSON", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("heart", "6"); err != nil {
			t.Fatalf("heart: %v", err)
		}
		h.output.Reset()

		if err := h.run("gate", "--json"); err != nil {
			t.Fatalf("gate: %v", err)
		}
		var report gateReport
		if err := json.Unmarshal(h.output.Bytes(), &report); err != nil {
			t.Fatalf("expected JSON, got %v: %s", err, h.output.String())
		}
		if report.Pending == nil || report.Pending.EventID != "6" {
			t.Errorf("expected pending entry for 6, got %+v", report.Pending)
		}
		if len(report.Ledger) != 1 || report.Ledger[0] != "6" {
			t.Errorf("expected ledger [6], got %v", report.Ledger)
		}
	})

	t.Run("favorites lists only saved events", func(t *testing.T) {
		h := newHarness(t)
		h.store().SetTempFavorites(models.NewFavoriteSet("1", "5"))

		if err := h.run("favorites", "--format", "text"); err != nil {
			t.Fatalf("favorites: %v", err)
		}
		out := h.output.String()
		if !strings.Contains(out, "Niagara Music Festival") || !strings.Contains(out, "Niagara Falls Marathon") {
			t.Errorf("expected both favorites, got %q", out)
		}
		if strings.Contains(out, "Comedy Night Live") {
			t.Errorf("expected unsaved events to be omitted, got %q", out)
		}
	})
}
