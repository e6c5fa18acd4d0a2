package services

import "errors"

// Error taxonomy. Handlers classify these with errors.Is to pick status codes;
// everything else is treated as a persistence failure and propagated as-is.
var (
	// ErrValidation rejects a request before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization rejects a request whose actor role is insufficient.
	ErrAuthorization = errors.New("operation not permitted for role")

	// ErrNotFound reports a missing vehicle or equipment item.
	ErrNotFound = errors.New("not found")

	// ErrNoOpenAnomaly signals a resolve on an item with nothing to clear.
	// A double-resolve is harmless: callers surface it as a no-op, and no
	// history entry is written.
	ErrNoOpenAnomaly = errors.New("no open anomaly to resolve")
)
