package protocol

import "errors"

var (
	// ErrUnknownSourceType rejects registration with a source type
	// outside {AS, HOST}. This is a configuration error, not a
	// transient one.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrMissingPayload marks an envelope that lacks the message
	// payload its task requires.
	ErrMissingPayload = errors.New("envelope has no message payload")
)
