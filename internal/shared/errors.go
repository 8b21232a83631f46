package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrSignUpFailed     = fmt.Errorf("sign up failed")
	ErrNotSignedIn      = fmt.Errorf("NOT_SIGNED_IN")
	ErrInvalidIdentity  = fmt.Errorf("invalid user identity")
	ErrBackendDown      = fmt.Errorf("backend not reachable")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrNavigationFailed = fmt.Errorf("navigation failed")

	// Favorites API errors, named after the remote operation that failed
	ErrFavoritesFetch = fmt.Errorf("FAVORITES_FETCH_FAILED")
	ErrFavoriteAdd    = fmt.Errorf("FAVORITE_ADD_FAILED")
	ErrFavoriteRemove = fmt.Errorf("FAVORITE_REMOVE_FAILED")
	ErrFavoritesBulk  = fmt.Errorf("FAVORITES_BULK_FAILED")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEventNotFound      = fmt.Errorf("event not found")
	ErrUserNotFound       = fmt.Errorf("USER_NOT_FOUND")

	// Development backend errors
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidEventID     = fmt.Errorf("event id is required")

	// Storage errors
	ErrStorageWrite = fmt.Errorf("storage write failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
