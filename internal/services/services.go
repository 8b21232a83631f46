// package services defines the remote contracts the client consumes
//
// Favorites list/add/remove/bulk and sign-in/sign-up against the events backend.
package services

import (
	"context"

	"github.com/desertthunder/niagara/internal/models"
)

// FavoritesAPI is the remote, per-user favorites store.
type FavoritesAPI interface {
	// List returns every favorite id of the user.
	List(ctx context.Context, userID int64) ([]models.FavoriteID, error)

	// Add saves eventID for the user. Adding an existing favorite succeeds.
	Add(ctx context.Context, userID int64, eventID models.FavoriteID) error

	// Remove deletes eventID for the user. Removing a missing favorite succeeds.
	Remove(ctx context.Context, userID int64, eventID models.FavoriteID) error

	// BulkAdd saves all ids at once and returns the user's full list afterwards.
	BulkAdd(ctx context.Context, userID int64, eventIDs []models.FavoriteID) ([]models.FavoriteID, error)
}

// AuthAPI signs users in and up.
type AuthAPI interface {
	SignIn(ctx context.Context, email, password string) (models.User, error)
	SignUp(ctx context.Context, name, email, password string) (models.User, error)
}

var (
	_ FavoritesAPI = (*FavoritesService)(nil)
	_ AuthAPI      = (*AuthService)(nil)
)
