package interfaces

import "context"

// Speaker routes text to the text-to-speech collaborator. Best effort:
// callers log failures and move on.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}
