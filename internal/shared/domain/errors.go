package domain

import "errors"

// ErrConcurrentModification is returned when a versioned save loses a race
// against another writer.
var ErrConcurrentModification = errors.New("aggregate was modified concurrently")
