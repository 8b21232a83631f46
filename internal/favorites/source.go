package favorites

import (
	"context"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/store"
)

// Source is where the current screen reads favorites from: either [Anonymous] or [Authenticated].
type Source interface {
	IsFavorite(ctx context.Context, id models.FavoriteID) bool
	Favorites(ctx context.Context) (models.FavoriteSet, error)
	source()
}

var (
	_ Source = Anonymous{}
	_ Source = Authenticated{}
)

// Anonymous reads from the ledger.
type Anonymous struct {
	Ledger *Ledger
}

func (a Anonymous) IsFavorite(_ context.Context, id models.FavoriteID) bool { return a.Ledger.IsFavorite(id) }

func (a Anonymous) Favorites(context.Context) (models.FavoriteSet, error) { return a.Ledger.All(), nil }

func (Anonymous) source() {}

// Authenticated reads the signed-in user's server-backed set.
type Authenticated struct {
	Client *Client
	User   models.User
}

func (a Authenticated) IsFavorite(ctx context.Context, id models.FavoriteID) bool {
	set, _ := a.Client.Read(ctx, a.User.ID)
	return set.Has(id)
}

func (a Authenticated) Favorites(ctx context.Context) (models.FavoriteSet, error) {
	return a.Client.Read(ctx, a.User.ID)
}

func (Authenticated) source() {}

// SelectSource returns [Authenticated] when st holds a valid identity, otherwise [Anonymous].
func SelectSource(st *store.Store, ledger *Ledger, client *Client) Source {
	if user, ok := st.User(); ok {
		return Authenticated{Client: client, User: user}
	}
	return Anonymous{Ledger: ledger}
}
