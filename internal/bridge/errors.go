package bridge

import "errors"

var (
	// ErrCellIndexOutOfRange aborts an extraction whose request names a
	// cell outside the source notebook. The whole call fails before any
	// mutation.
	ErrCellIndexOutOfRange = errors.New("cell index out of range")
)
