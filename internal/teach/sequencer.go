// Package teach drives the lecture walkthrough: a fixed sequence of
// cell-index groups dispatched one group per invocation as extraction
// commands.
package teach

import (
	"log"
	"sync"

	"github.com/Linnore/PyTeach/internal/bus"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

// AdvancePolicy controls when the cursor moves past a dispatched group.
type AdvancePolicy int

const (
	// AdvanceOnDispatch moves the cursor immediately after publishing
	// the command. Delivery is at most once; a failed extraction skips
	// the group for good.
	AdvanceOnDispatch AdvancePolicy = iota

	// AdvanceOnAck holds the cursor until Ack is called, so a failed
	// group can be re-invoked.
	AdvanceOnAck
)

// Sequencer walks an ordered list of cell-index groups. Each Invoke
// dispatches exactly one extraction command for the group under the
// cursor; once every group has been dispatched the sequencer is
// exhausted and stays that way. No rewind.
type Sequencer struct {
	mu         sync.Mutex
	bus        *bus.Bus
	sourceFile string
	groups     [][]int
	cursor     int
	playSound  bool
	policy     AdvancePolicy
	pendingAck bool
}

// Option configures a Sequencer at construction.
type Option func(*Sequencer)

// WithAdvancePolicy overrides the default AdvanceOnDispatch policy.
func WithAdvancePolicy(p AdvancePolicy) Option {
	return func(s *Sequencer) { s.policy = p }
}

// WithPlaySound sets the initial speech flag.
func WithPlaySound(on bool) Option {
	return func(s *Sequencer) { s.playSound = on }
}

// NewSequencer builds a sequencer over the given source notebook and
// group order. Groups are defensively copied.
func NewSequencer(b *bus.Bus, sourceFile string, groups [][]int, opts ...Option) *Sequencer {
	copied := make([][]int, len(groups))
	for i, g := range groups {
		copied[i] = append([]int(nil), g...)
	}
	s := &Sequencer{bus: b, sourceFile: sourceFile, groups: copied}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invoke dispatches the group under the cursor as an extractAndSaveCell
// command. The speech flag is read at invocation time, so toggling it
// mid-sequence affects the next group.
func (s *Sequencer) Invoke() error {
	s.mu.Lock()

	if s.cursor >= len(s.groups) {
		s.mu.Unlock()
		return ErrSequenceExhausted
	}
	if s.policy == AdvanceOnAck && s.pendingAck {
		s.mu.Unlock()
		return ErrAwaitingAck
	}

	group := s.groups[s.cursor]
	env := protocol.NewExtractEnvelope(protocol.ExtractRequest{
		CellIndexArray: append([]int(nil), group...),
		SourceFile:     s.sourceFile,
		PlaySound:      s.playSound,
	})

	if s.policy == AdvanceOnDispatch {
		s.cursor++
	} else {
		s.pendingAck = true
	}
	remaining := len(s.groups) - s.cursor
	s.mu.Unlock()

	// Publish outside the lock: handlers may call back into the
	// sequencer (Ack, SetPlaySound).
	s.bus.Publish(env)
	log.Printf("teach: dispatched group %v, %d remaining", group, remaining)
	return nil
}

// Ack confirms the last dispatched group under AdvanceOnAck and moves
// the cursor. Without a pending dispatch it is a no-op.
func (s *Sequencer) Ack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == AdvanceOnAck && s.pendingAck {
		s.pendingAck = false
		s.cursor++
	}
}

// SetPlaySound toggles speech for subsequent invocations.
func (s *Sequencer) SetPlaySound(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playSound = on
}

// PlaySound reports the current speech flag.
func (s *Sequencer) PlaySound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playSound
}

// Exhausted reports whether every group has been dispatched.
func (s *Sequencer) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor >= len(s.groups)
}

// Cursor returns the index of the next group to dispatch.
func (s *Sequencer) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
