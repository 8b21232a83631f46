package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// Storage keys. All values are JSON except the confirmation markers.
const (
	TempFavoritesKey   = "niagara:tempFavorites"
	PendingFavoriteKey = "niagara:pendingFavorite"
	ConfirmedEventKey  = "niagara:favoriteConfirmedEventId"
	LegacyConfirmedKey = "niagara:favoriteConfirmed"
	UserKey            = "niagara:user"
)

// legacyConfirmedValue is the only value of [LegacyConfirmedKey] that counts as set.
const legacyConfirmedValue = "1"

// Store gives typed access to the entities kept in a [Storage].
type Store struct {
	storage Storage
	logger  *log.Logger

	// mu serializes read-modify-write sequences on the ledger.
	mu sync.Mutex
}

// New creates a [Store] over storage.
func New(storage Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{storage: storage, logger: shared.WithLogger(logger, "component", "store")}
}

// Storage exposes the underlying backend.
func (s *Store) Storage() Storage { return s.storage }

// readJSON decodes key into v and reports whether a well-formed value was present.
func (s *Store) readJSON(key string, v any) bool {
	raw, ok := s.storage.Get(key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Debug("ignoring malformed storage value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.storage.Set(key, string(data)); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
	}
	return nil
}

func (s *Store) remove(keys ...string) error {
	for _, key := range keys {
		if err := s.storage.Remove(key); err != nil {
			return fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
		}
	}
	return nil
}

// TempFavorites returns the anonymous ledger. Absent or malformed data yields an empty set.
func (s *Store) TempFavorites() models.FavoriteSet {
	var set models.FavoriteSet
	if !s.readJSON(TempFavoritesKey, &set) || set == nil {
		return models.NewFavoriteSet()
	}
	return set
}

// SetTempFavorites replaces the anonymous ledger.
func (s *Store) SetTempFavorites(set models.FavoriteSet) error {
	return s.writeJSON(TempFavoritesKey, set)
}

// UpdateTempFavorites applies fn to the ledger and persists the result as one step.
func (s *Store) UpdateTempFavorites(fn func(models.FavoriteSet)) (models.FavoriteSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.TempFavorites()
	fn(set)
	if err := s.SetTempFavorites(set); err != nil {
		return nil, err
	}
	return set, nil
}

// ClearTempFavorites removes the ledger key entirely.
func (s *Store) ClearTempFavorites() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(TempFavoritesKey)
}

// PendingFavorite returns the stored gate entry, if a well-formed one exists.
func (s *Store) PendingFavorite() (models.PendingFavorite, bool) {
	var p models.PendingFavorite
	if !s.readJSON(PendingFavoriteKey, &p) || p.EventID == "" {
		return models.PendingFavorite{}, false
	}
	return p, true
}

// SetPendingFavorite stores p, replacing any earlier entry.
func (s *Store) SetPendingFavorite(p models.PendingFavorite) error {
	return s.writeJSON(PendingFavoriteKey, p)
}

// ClearPendingFavorite removes the gate entry.
func (s *Store) ClearPendingFavorite() error {
	return s.remove(PendingFavoriteKey)
}

// ConfirmedEvent returns the confirmation marker.
func (s *Store) ConfirmedEvent() (models.FavoriteID, bool) {
	raw, ok := s.storage.Get(ConfirmedEventKey)
	if !ok {
		return "", false
	}
	id, err := models.NewFavoriteID(raw)
	if err != nil {
		return "", false
	}
	return id, true
}

// LegacyConfirmed reports whether the old boolean confirmation flag is set.
func (s *Store) LegacyConfirmed() bool {
	raw, ok := s.storage.Get(LegacyConfirmedKey)
	return ok && raw == legacyConfirmedValue
}

// SetConfirmedEvent writes the confirmation marker for id.
func (s *Store) SetConfirmedEvent(id models.FavoriteID) error {
	if err := s.storage.Set(ConfirmedEventKey, string(id)); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStorageWrite, err)
	}
	return nil
}

// ClearConfirmation removes the marker and the legacy flag.
func (s *Store) ClearConfirmation() error {
	return s.remove(ConfirmedEventKey, LegacyConfirmedKey)
}

// User returns the stored identity when it is structurally valid.
func (s *Store) User() (models.User, bool) {
	var u models.User
	if !s.readJSON(UserKey, &u) {
		return models.User{}, false
	}
	if err := u.Validate(); err != nil {
		s.logger.Debug("ignoring invalid identity", "error", err)
		return models.User{}, false
	}
	return u, true
}

// SetUser persists u after validating it.
func (s *Store) SetUser(u models.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidIdentity, err)
	}
	return s.writeJSON(UserKey, u)
}

// ClearUser signs the client out.
func (s *Store) ClearUser() error {
	return s.remove(UserKey)
}
