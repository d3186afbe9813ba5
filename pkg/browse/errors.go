package browse

import "errors"

var (
	// ErrInvalidArgument is returned for malformed identifiers or
	// out-of-range paging parameters, before any store access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned for a well-formed identifier that matches no
	// stored records.
	ErrNotFound = errors.New("not found")

	// ErrBackendUnavailable is returned when the backing store cannot be
	// reached. Retried at the cache layer, never at this one.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
