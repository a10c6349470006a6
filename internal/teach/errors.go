package teach

import "errors"

var (
	// ErrSequenceExhausted signals an Invoke after every group has been
	// dispatched. The sequencer never rewinds.
	ErrSequenceExhausted = errors.New("teach sequence exhausted")

	// ErrAwaitingAck signals an Invoke while the previous group is
	// still unconfirmed under the AdvanceOnAck policy.
	ErrAwaitingAck = errors.New("previous teach group awaiting ack")
)
