package buffer

import "errors"

// ErrRangeInverted is returned when a range ends before it starts.
var ErrRangeInverted = errors.New("buffer: range end precedes start")
