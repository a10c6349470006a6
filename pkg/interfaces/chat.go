package interfaces

import "context"

// ChatBackend is the streaming chat collaborator, consumed only via its
// HTTP request/response contract. Stream returns the assistant's reply
// (the last element of the backend's responses array); taskType is empty
// for plain user input and one of teach/debug/explain/comment for
// externally triggered tasks.
type ChatBackend interface {
	Stream(ctx context.Context, threadID, taskType string, messages []string) (string, error)
	ThreadIDs(ctx context.Context) ([]string, error)
	DeleteThread(ctx context.Context, threadID string) error
}
