package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Linnore/PyTeach/pkg/protocol"
)

// Options carries the socket tuning knobs from configuration.
type Options struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// Handler accepts socket connections and runs the relay event loop:
// register joins a derived room, from_AS_to_socket broadcasts to the
// HOST room, from_host_to_socket performs one-shot targeted delivery.
// The relay has no notebook or chat knowledge; payloads pass through
// untouched.
type Handler struct {
	rooms *Rooms
	opts  Options

	upgrader websocket.Upgrader
}

func NewHandler(rooms *Rooms, opts Options) *Handler {
	return &Handler{
		rooms: rooms,
		opts:  opts,
		upgrader: websocket.Upgrader{
			// Origin policy is a deployment concern; the protocol
			// itself trusts embedded contexts.
			CheckOrigin:      func(r *http.Request) bool { return true },
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// HandleWebSocket upgrades the request and hands the connection to its
// read loop.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("relay: upgrade failed: %v", err)
		return
	}

	c := newConnection(conn, h.opts.BufferSize, h.opts.WriteTimeout)
	log.Printf("relay: %s connected", c.ID())

	go h.handleConnection(c)
}

func (h *Handler) handleConnection(c *Connection) {
	defer func() {
		h.rooms.Remove(c)
		_ = c.Close()
		log.Printf("relay: %s disconnected", c.ID())
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	})

	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(h.opts.WriteTimeout)); err != nil {
					return
				}
			case <-c.ctx.Done():
				return
			}
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: %s read error: %v", c.ID(), err)
			}
			return
		}

		var frame protocol.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("relay: %s sent malformed frame: %v", c.ID(), err)
			continue
		}
		h.dispatch(c, frame)
	}
}

func (h *Handler) dispatch(c *Connection, frame protocol.Frame) {
	switch frame.Event {
	case protocol.EventRegister:
		h.handleRegister(c, frame.Data)
	case protocol.EventFromASToSocket:
		h.handleFromAS(c, frame.Data)
	case protocol.EventFromHostToSocket:
		h.handleFromHost(c, frame.Data)
	case protocol.EventJoinRoom:
		h.handleJoinRoom(c, frame.Data)
	case protocol.EventSendMsg:
		h.handleSendMsg(c, frame.Data)
	default:
		// Version skew tolerance: unknown events are logged, never fatal.
		log.Printf("relay: %s sent unknown event %q", c.ID(), frame.Event)
	}
}

// handleRegister joins the connection to its derived room. An unknown
// source type is a configuration error: registration aborts loudly and
// never defaults to an ambiguous room.
func (h *Handler) handleRegister(c *Connection, data json.RawMessage) {
	var req protocol.RegisterRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Printf("relay: %s register payload malformed: %v", c.ID(), err)
		h.sendError(c, "malformed register payload")
		return
	}

	room, err := protocol.RoomID(req.SourceType, req.SourceID)
	if err != nil {
		log.Printf("relay: %s register failed: %v (source_type=%q)", c.ID(), err, req.SourceType)
		h.sendError(c, err.Error())
		return
	}

	h.rooms.Join(room, c)
	log.Printf("relay: %s registered as %s", c.ID(), room)
}

// handleFromAS broadcasts an AS command to every host page. One to
// many, no acknowledgment.
func (h *Handler) handleFromAS(c *Connection, data json.RawMessage) {
	frame := protocol.Frame{Event: protocol.EventFromSocketToHost, Data: data}
	for _, member := range h.rooms.Members(protocol.HostRoom) {
		if member.ID() == c.ID() {
			continue
		}
		if err := member.WriteFrame(frame); err != nil {
			log.Printf("relay: deliver to host %s failed: %v", member.ID(), err)
		}
	}
	log.Printf("relay: %s broadcast to %s", c.ID(), protocol.HostRoom)
}

// handleFromHost delivers a host reply to the room named by target_id,
// then evicts every member from that room. The eviction is the
// addressing discipline, not cleanup: a target room is consumed after
// one delivery so a stale membership can never receive a duplicate.
func (h *Handler) handleFromHost(c *Connection, data json.RawMessage) {
	var addr struct {
		TargetID string `json:"target_id"`
	}
	if err := json.Unmarshal(data, &addr); err != nil || addr.TargetID == "" {
		log.Printf("relay: %s host emission without target_id", c.ID())
		return
	}

	frame := protocol.Frame{Event: protocol.EventFromSocketToAS, Data: data}
	for _, member := range h.rooms.Drain(addr.TargetID) {
		if err := member.WriteFrame(frame); err != nil {
			log.Printf("relay: deliver to %s failed: %v", member.ID(), err)
		}
	}
	log.Printf("relay: %s delivered to %s (room consumed)", c.ID(), addr.TargetID)
}

// handleJoinRoom serves the /debug page flow: join an arbitrary room by
// name, no derivation.
func (h *Handler) handleJoinRoom(c *Connection, data json.RawMessage) {
	var room string
	if err := json.Unmarshal(data, &room); err != nil || room == "" {
		log.Printf("relay: %s join_room payload malformed", c.ID())
		return
	}
	h.rooms.Join(room, c)
	log.Printf("relay: %s joined room %s", c.ID(), room)
}

// handleSendMsg serves the /debug page flow: relay a message to one
// room, sender excluded, room kept.
func (h *Handler) handleSendMsg(c *Connection, data json.RawMessage) {
	var msg protocol.DebugRoomMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.RoomID == "" {
		log.Printf("relay: %s send_msg payload malformed", c.ID())
		return
	}

	frame := protocol.Frame{Event: protocol.EventReceiveMsg, Data: data}
	for _, member := range h.rooms.Members(msg.RoomID) {
		if member.ID() == c.ID() {
			continue
		}
		if err := member.WriteFrame(frame); err != nil {
			log.Printf("relay: deliver to %s failed: %v", member.ID(), err)
		}
	}
}

func (h *Handler) sendError(c *Connection, reason string) {
	frame, err := protocol.NewFrame(protocol.EventReplyError, map[string]string{"reason": reason})
	if err != nil {
		return
	}
	if err := c.WriteFrame(frame); err != nil {
		log.Printf("relay: error frame to %s failed: %v", c.ID(), err)
	}
}
