package common

import "errors"

// Error taxonomy shared by the API client, the query layer and the upload
// session manager. Callers match with errors.Is.
var (
	// ErrUnauthorized maps 401 responses. It propagates to the top of the
	// application, which clears the cache and the upload session and forces
	// re-authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict maps 409 responses (e.g. duplicate user email). Surfaced
	// inline on the originating form; never invalidates caches.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable covers connectivity failures and client-side request
	// timeouts. Retryable.
	ErrUnavailable = errors.New("server unavailable")

	// ErrServer maps 5xx responses. Retryable.
	ErrServer = errors.New("server error")

	// ErrNotFound maps 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers local pre-flight rejections (file type, size,
	// count). No network call is ever made for a validation failure.
	ErrValidation = errors.New("validation failed")
)
