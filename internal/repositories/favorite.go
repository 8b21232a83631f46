package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// FavoriteRepository stores the favorite event ids of each account.
//
// Every write is idempotent. Ids are trimmed before they are stored.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new [FavoriteRepository] with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func cleanEventID(id models.FavoriteID) (string, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return "", shared.ErrInvalidEventID
	}
	return trimmed, nil
}

// List returns the account's favorites in ascending order.
func (r *FavoriteRepository) List(accountID int64) ([]models.FavoriteID, error) {
	rows, err := r.db.Query(`SELECT event_id FROM account_favorites WHERE account_id = ? ORDER BY event_id ASC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	ids := []models.FavoriteID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, models.FavoriteID(id))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

// Add saves id for the account. Saving an existing favorite is a no-op.
func (r *FavoriteRepository) Add(accountID int64, id models.FavoriteID) error {
	eventID, err := cleanEventID(id)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(`INSERT OR IGNORE INTO account_favorites (account_id, event_id) VALUES (?, ?)`, accountID, eventID); err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// Remove deletes id for the account. Removing a missing favorite is a no-op.
func (r *FavoriteRepository) Remove(accountID int64, id models.FavoriteID) error {
	eventID, err := cleanEventID(id)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(`DELETE FROM account_favorites WHERE account_id = ? AND event_id = ?`, accountID, eventID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// AddAll saves every id in one transaction and returns the account's full list afterwards.
//
// Blank ids are skipped and duplicates collapse.
func (r *FavoriteRepository) AddAll(accountID int64, ids []models.FavoriteID) ([]models.FavoriteID, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO account_favorites (account_id, event_id) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		eventID, err := cleanEventID(id)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(accountID, eventID); err != nil {
			return nil, fmt.Errorf("failed to insert favorite %q: %w", eventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit favorites: %w", err)
	}
	return r.List(accountID)
}
