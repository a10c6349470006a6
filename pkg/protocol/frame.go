package protocol

import "encoding/json"

// Socket event names. The four relay events reuse the envelope type
// strings; register, disconnect handling, and the debug-room events are
// relay-only.
const (
	EventRegister         = "register"
	EventFromASToSocket   = string(TypeASToSocket)
	EventFromHostToSocket = string(TypeHostToSocket)
	EventFromSocketToHost = string(TypeSocketToHost)
	EventFromSocketToAS   = string(TypeSocketToAS)
	EventReplyError       = string(TypeReplyError)

	// Debug-room events used by the /debug page flow.
	EventJoinRoom   = "join_room"
	EventSendMsg    = "send_msg"
	EventReceiveMsg = "receive_msg"
)

// Frame is the socket channel's wire unit: a named event with a JSON
// payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewFrame marshals data into a frame for event. Marshal failures are
// programming errors on the sending side and surface as an error here
// rather than a malformed frame on the wire.
func NewFrame(event string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: event, Data: raw}, nil
}

// RegisterRequest is the payload of the register event.
type RegisterRequest struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
}

// DebugRoomMessage is the payload of the send_msg/receive_msg debug
// events: an arbitrary message addressed to one room.
type DebugRoomMessage struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message,omitempty"`
}
