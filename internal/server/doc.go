// Package server is the development backend behind `niagara serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so "POST /api/auth/signin" only matches
// POST and path values such as {userId} are available through [http.Request.PathValue].
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
//   - [AuthHandler] : sign-in and sign-up against [repositories.AccountRepository]
//   - [FavoritesHandler] : list, add, remove and bulk add against [repositories.FavoriteRepository]
//   - [EventsHandler] : the read-only event catalog
//
// Errors are written as {"error": "..."} with the status the client maps to its own sentinels.
// An unknown account is always 404 {"error":"USER_NOT_FOUND"}.
package server
