package chat

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Linnore/PyTeach/internal/bus"
	"github.com/Linnore/PyTeach/pkg/interfaces"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

// Role marks who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a thread's transcript.
type Message struct {
	ID      string
	Role    Role
	Content string
}

// DefaultThread is the thread selected at mount and after a clear.
const DefaultThread = "0"

// Store keeps per-thread transcripts for the assistant panel and runs
// request cycles against the backend. The backend owns conversational
// memory; the store only mirrors what this panel has seen.
type Store struct {
	mu      sync.Mutex
	backend interfaces.ChatBackend
	threads map[string][]Message
	active  string
}

// NewStore wires a store onto the page bus so iframe-originated tasks
// (teach, debug, explain, comment) reach the backend.
func NewStore(b *bus.Bus, backend interfaces.ChatBackend) *Store {
	s := &Store{
		backend: backend,
		threads: map[string][]Message{DefaultThread: nil},
		active:  DefaultThread,
	}
	if b != nil {
		b.Subscribe(protocol.TypeIframeToChat, s.handleExternal)
	}
	return s
}

// Seed registers the backend's existing thread ids as empty local
// transcripts. Prior turns are not recoverable; only the backend
// remembers them.
func (s *Store) Seed(ctx context.Context) error {
	ids, err := s.backend.ThreadIDs(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.threads[id]; !ok {
			s.threads[id] = nil
		}
	}
	return nil
}

// SetActiveThread switches the thread new submissions go to, creating
// it locally if unseen. Only single-digit ids are selectable.
func (s *Store) SetActiveThread(id string) error {
	if len(id) != 1 || id[0] < '0' || id[0] > '9' {
		return ErrInvalidThreadID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[id]; !ok {
		s.threads[id] = nil
	}
	s.active = id
	return nil
}

// ActiveThread returns the currently selected thread id.
func (s *Store) ActiveThread() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ThreadIDs returns the locally known thread ids.
func (s *Store) ThreadIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	return ids
}

// Messages returns a snapshot of one thread's transcript.
func (s *Store) Messages(threadID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.threads[threadID]...)
}

// Submit appends text as a user message to the active thread and runs a
// request cycle. The reply lands on the thread that was active at
// submission time, even if the selection moves mid-flight.
func (s *Store) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	threadID := s.active
	s.threads[threadID] = append(s.threads[threadID], Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: text,
	})
	s.mu.Unlock()

	reply, err := s.backend.Stream(ctx, threadID, "", []string{text})
	if err != nil {
		return err
	}

	s.append(threadID, RoleAssistant, reply)
	return nil
}

// handleExternal runs iframe-originated task cycles. No user-visible
// message is appended; only the assistant reply lands in the thread
// that was active when the task arrived.
func (s *Store) handleExternal(env protocol.Envelope) {
	var messages []string
	switch env.Task {
	case protocol.TaskTeach:
		messages = []string{env.GetString("content")}
	case protocol.TaskDebug, protocol.TaskExplain, protocol.TaskComment:
		messages = []string{""}
	default:
		log.Printf("chat: unknown task %q ignored", env.Task)
		return
	}

	s.mu.Lock()
	threadID := s.active
	s.mu.Unlock()

	reply, err := s.backend.Stream(context.Background(), threadID, env.Task, messages)
	if err != nil {
		log.Printf("chat: %s cycle failed: %v", env.Task, err)
		return
	}
	s.append(threadID, RoleAssistant, reply)
}

// Clear deletes the active thread's backend memory, then drops the
// local transcript and resets the selection to the default thread.
// Backend failure leaves local state untouched.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	threadID := s.active
	s.mu.Unlock()

	if err := s.backend.DeleteThread(ctx, threadID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, threadID)
	if _, ok := s.threads[DefaultThread]; !ok {
		s.threads[DefaultThread] = nil
	}
	s.active = DefaultThread
	return nil
}

func (s *Store) append(threadID string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	})
}
