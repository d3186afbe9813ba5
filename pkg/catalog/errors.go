package catalog

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no stored records.
	ErrNotFound = errors.New("record not found")

	// ErrDatabaseError wraps failures of the underlying store.
	ErrDatabaseError = errors.New("database error")
)
