package ephemeris

import "errors"

// Sentinel kinds for computation-service errors.
var (
	ErrUnavailable = errors.New("computation service unavailable")
	ErrBadResponse = errors.New("computation service returned a bad response")
)
