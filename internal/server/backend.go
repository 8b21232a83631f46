package server

import (
	"database/sql"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/repositories"
	"github.com/desertthunder/niagara/internal/shared"
)

// NewBackend wires the repositories over db into a router serving the whole API.
func NewBackend(db *sql.DB, c *catalog.Catalog, logger *log.Logger) *BasicRouter {
	return newBackend(repositories.NewAccountRepository(db), repositories.NewFavoriteRepository(db), c, logger)
}

func newBackend(accounts *repositories.AccountRepository, favorites *repositories.FavoriteRepository, c *catalog.Catalog, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = log.Default()
	}
	logger = shared.WithLogger(logger, "component", "backend")

	r := NewBasicRouter()
	r.Use(WithRequestID(), WithLogging(logger), WithRecovery(logger))

	r.Handler(NewAuthHandler(accounts, logger))
	r.Handler(NewFavoritesHandler(accounts, favorites, logger))
	r.Handler(NewEventsHandler(c))
	r.HandleFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}
