package chat

import "errors"

var (
	// ErrEmptyReply signals a well-formed backend response carrying no
	// responses to surface.
	ErrEmptyReply = errors.New("chat backend returned no responses")

	// ErrInvalidThreadID rejects thread selectors outside the
	// single-digit id space the panel exposes.
	ErrInvalidThreadID = errors.New("thread id must be a single digit")
)
