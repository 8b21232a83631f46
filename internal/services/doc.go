// Package services implements the HTTP contract of the events backend.
//
// # Contract
//
//	GET    /api/favorites/{userId}            list favorites        → FAVORITES_FETCH_FAILED
//	POST   /api/favorites/{userId}/{eventId}  add favorite          → FAVORITE_ADD_FAILED
//	DELETE /api/favorites/{userId}/{eventId}  remove favorite       → FAVORITE_REMOVE_FAILED
//	POST   /api/favorites/{userId}/bulk       bulk add {eventIds}   → FAVORITES_BULK_FAILED
//	POST   /api/auth/signin                   {email,password}      → server message or generic
//	POST   /api/auth/signup                   {name,email,password} → server message or generic
//
// [FavoritesService] and [AuthService] share a [Client], which rate limits requests (golang.org/x/time/rate),
// tags them with an X-Request-ID and, when a token is configured, sends it as a bearer token via
// [oauth2.StaticTokenSource].
//
// # Error Handling
//
// Every failure wraps the sentinel of the operation from the shared package, so callers match with errors.Is:
//   - [shared.ErrFavoritesFetch], [shared.ErrFavoriteAdd], [shared.ErrFavoriteRemove], [shared.ErrFavoritesBulk]
//   - [shared.ErrAuthFailed], [shared.ErrSignUpFailed]
//
// Non-2xx responses are [*APIError] carrying the backend's "error" or "message" field.
// Transport failures also wrap [shared.ErrBackendDown].
package services
