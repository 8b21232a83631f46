// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// FakeFavorites is an in-memory test double for services.FavoritesAPI.
//
// Set the *Err fields to make the matching call fail. When ListGate is non-nil, List blocks until it is closed.
type FakeFavorites struct {
	mu    sync.Mutex
	sets  map[int64]models.FavoriteSet
	calls map[string]int

	ListErr   error
	AddErr    error
	RemoveErr error
	BulkErr   error
	ListGate  chan struct{}
}

// NewFakeFavorites creates an empty [FakeFavorites].
func NewFakeFavorites() *FakeFavorites {
	return &FakeFavorites{sets: make(map[int64]models.FavoriteSet), calls: make(map[string]int)}
}

// Seed replaces the server-side favorites of userID.
func (f *FakeFavorites) Seed(userID int64, ids ...models.FavoriteID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[userID] = models.NewFavoriteSet(ids...)
}

// Server returns a copy of the server-side favorites of userID.
func (f *FakeFavorites) Server(userID int64) models.FavoriteSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[userID].Clone()
}

// Calls returns how many times op ("list", "add", "remove", "bulk") was invoked.
func (f *FakeFavorites) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// SetErr sets the failure for op under the lock, for use while calls are in flight.
func (f *FakeFavorites) SetErr(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch op {
	case "list":
		f.ListErr = err
	case "add":
		f.AddErr = err
	case "remove":
		f.RemoveErr = err
	case "bulk":
		f.BulkErr = err
	}
}

func (f *FakeFavorites) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *FakeFavorites) List(ctx context.Context, userID int64) ([]models.FavoriteID, error) {
	f.record("list")
	if f.ListGate != nil {
		select {
		case <-f.ListGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFavoritesFetch, f.ListErr)
	}
	return f.sets[userID].Slice(), nil
}

func (f *FakeFavorites) Add(ctx context.Context, userID int64, eventID models.FavoriteID) error {
	f.record("add")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AddErr != nil {
		return fmt.Errorf("%w: %w", shared.ErrFavoriteAdd, f.AddErr)
	}
	f.setFor(userID).Add(eventID)
	return nil
}

func (f *FakeFavorites) Remove(ctx context.Context, userID int64, eventID models.FavoriteID) error {
	f.record("remove")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RemoveErr != nil {
		return fmt.Errorf("%w: %w", shared.ErrFavoriteRemove, f.RemoveErr)
	}
	f.setFor(userID).Remove(eventID)
	return nil
}

func (f *FakeFavorites) BulkAdd(ctx context.Context, userID int64, eventIDs []models.FavoriteID) ([]models.FavoriteID, error) {
	f.record("bulk")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BulkErr != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFavoritesBulk, f.BulkErr)
	}
	set := f.setFor(userID)
	for _, id := range eventIDs {
		set.Add(id)
	}
	return set.Slice(), nil
}

func (f *FakeFavorites) setFor(userID int64) models.FavoriteSet {
	set, ok := f.sets[userID]
	if !ok {
		set = models.NewFavoriteSet()
		f.sets[userID] = set
	}
	return set
}

// FakeAuth is a test double for services.AuthAPI that returns User or Err.
type FakeAuth struct {
	User  models.User
	Err   error
	Calls int
}

func (f *FakeAuth) SignIn(ctx context.Context, email, password string) (models.User, error) {
	f.Calls++
	if f.Err != nil {
		return models.User{}, f.Err
	}
	return f.User, nil
}

func (f *FakeAuth) SignUp(ctx context.Context, name, email, password string) (models.User, error) {
	f.Calls++
	if f.Err != nil {
		return models.User{}, f.Err
	}
	u := f.User
	if name != "" {
		u.Name = name
	}
	return u, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
