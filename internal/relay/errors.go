package relay

import "errors"

// Connection errors.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrWriteTimeout     = errors.New("write timed out")
)

// Client errors.
var (
	ErrClientClosed = errors.New("relay client closed")
)
