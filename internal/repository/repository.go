package repository

import "errors"

// ErrVersionConflict is returned when a compare-and-swap update loses a race:
// the row exists but its version no longer matches the one read.
var ErrVersionConflict = errors.New("version conflict")
