package reconcile

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/shared"
)

// Migrator uploads the anonymous ledger to a freshly signed-in account.
type Migrator struct {
	ledger *favorites.Ledger
	remote services.FavoritesAPI
	client *favorites.Client
	logger *log.Logger
}

// NewMigrator creates a [Migrator]. client may be nil when no cache needs invalidating.
func NewMigrator(ledger *favorites.Ledger, remote services.FavoritesAPI, client *favorites.Client, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Migrator{ledger: ledger, remote: remote, client: client, logger: shared.WithLogger(logger, "component", "migration")}
}

// Migrate sends every ledger id to the user's account in one bulk call and returns how many were sent.
//
// An empty ledger makes no call. On success the ledger is cleared and the user's cached set is invalidated.
// On failure the ledger is left untouched.
func (m *Migrator) Migrate(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, shared.ErrNotSignedIn
	}

	ids := m.ledger.All().Slice()
	if len(ids) == 0 {
		m.logger.Debug("nothing to migrate", "user", userID)
		return 0, nil
	}

	if _, err := m.remote.BulkAdd(ctx, userID, ids); err != nil {
		m.logger.Warn("favorites migration failed, keeping local ledger", "user", userID, "count", len(ids), "error", err)
		return 0, err
	}

	if err := m.ledger.Clear(); err != nil {
		return len(ids), fmt.Errorf("%w: clearing ledger after migration: %w", shared.ErrStorageWrite, err)
	}
	if m.client != nil {
		m.client.Invalidate(userID)
	}

	m.logger.Info("migrated favorites", "user", userID, "count", len(ids))
	return len(ids), nil
}
