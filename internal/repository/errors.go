package repository

import "errors"

// ErrNotFound is returned when a cached record does not exist.
var ErrNotFound = errors.New("not found")
