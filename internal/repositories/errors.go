package repositories

import "errors"

// ErrNotFound is returned by every repository when a record does not exist.
// Callers check it with errors.Is so handlers can map it to a 404 uniformly.
var ErrNotFound = errors.New("record not found")
