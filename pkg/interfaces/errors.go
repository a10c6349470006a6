package interfaces

import "errors"

// Collaborator errors shared across Editor implementations.
var (
	ErrNoActiveNotebook = errors.New("no active notebook")
	ErrNoActiveCell     = errors.New("no active cell")
)
