package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates a mutating command was issued to a read-only
	// engine. Nothing is changed when it is returned.
	ErrReadOnly = errors.New("engine: read-only")
)
