package store

import "errors"

// ErrUnavailable wraps a failed liveness check (Ping), so callers above
// this package can distinguish "the store is down" from a logic error
// without depending on a concrete driver's error types. Other commands
// return the driver's error without this wrapper.
var ErrUnavailable = errors.New("store: unavailable")
