package store

import "errors"

// Sentinel errors callers branch on with errors.Is. Anything else coming out
// of this package is a storage failure that rolled back cleanly and may be
// retried as-is.
var (
	// ErrNotFound marks operations targeting an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks structural precondition violations: self
	// nesting, wrong section, a secondary where a top-level item is required,
	// or an id list that does not match its sibling scope. These are checked
	// before any write, so nothing is ever partially applied.
	ErrInvalidArgument = errors.New("invalid argument")
)
