package favorites

import (
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/store"
)

// Ledger is the set of events favorited while signed out.
type Ledger struct {
	store *store.Store
}

// NewLedger creates a [Ledger] persisted in st.
func NewLedger(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// IsFavorite reports membership. Unreadable storage counts as not saved.
func (l *Ledger) IsFavorite(id models.FavoriteID) bool {
	return l.store.TempFavorites().Has(id)
}

// SetFavorite adds or removes id and persists immediately.
func (l *Ledger) SetFavorite(id models.FavoriteID, saved bool) error {
	_, err := l.store.UpdateTempFavorites(func(set models.FavoriteSet) {
		if saved {
			set.Add(id)
		} else {
			set.Remove(id)
		}
	})
	return err
}

// ToggleFavorite flips id, persists, and returns the new membership.
func (l *Ledger) ToggleFavorite(id models.FavoriteID) (bool, error) {
	var saved bool
	_, err := l.store.UpdateTempFavorites(func(set models.FavoriteSet) {
		saved = !set.Has(id)
		if saved {
			set.Add(id)
		} else {
			set.Remove(id)
		}
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

// All returns a copy of the ledger.
func (l *Ledger) All() models.FavoriteSet {
	return l.store.TempFavorites()
}

// Clear drops the whole ledger.
func (l *Ledger) Clear() error {
	return l.store.ClearTempFavorites()
}
