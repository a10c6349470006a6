package relay

import "sync"

// Rooms is the relay's only shared mutable state: the in-memory room
// membership table. Nothing here survives a restart and no message
// history is kept. Access is mutex-serialized.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*Connection // room id -> connection id -> connection
	joined map[string]map[string]bool        // connection id -> room ids
}

func NewRooms() *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[string]*Connection),
		joined: make(map[string]map[string]bool),
	}
}

// Join adds the connection to a room. Joining twice is a no-op; a
// connection may be in any number of rooms.
func (r *Rooms) Join(room string, conn *Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]*Connection)
	}
	r.rooms[room][conn.id] = conn

	if r.joined[conn.id] == nil {
		r.joined[conn.id] = make(map[string]bool)
	}
	r.joined[conn.id][room] = true
}

// Members returns the connections currently in a room.
func (r *Rooms) Members(room string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conns []*Connection
	for _, conn := range r.rooms[room] {
		conns = append(conns, conn)
	}
	return conns
}

// Drain removes every member from a room and returns them. This is the
// one-shot mailbox discipline for targeted delivery: a room is consumed
// after one delivery and the remote client must re-register before it
// can receive another targeted message. The connections themselves stay
// open and keep their other room memberships.
func (r *Rooms) Drain(room string) []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conns []*Connection
	for id, conn := range r.rooms[room] {
		conns = append(conns, conn)
		delete(r.joined[id], room)
		if len(r.joined[id]) == 0 {
			delete(r.joined, id)
		}
	}
	delete(r.rooms, room)
	return conns
}

// Remove takes the connection out of every room it joined. Idempotent;
// called on disconnect.
func (r *Rooms) Remove(conn *Connection) {
	if conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.joined[conn.id] {
		delete(r.rooms[room], conn.id)
		if len(r.rooms[room]) == 0 {
			delete(r.rooms, room)
		}
	}
	delete(r.joined, conn.id)
}

// Stats reports room and membership counts for the health endpoint.
func (r *Rooms) Stats() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]int{
		"rooms":       len(r.rooms),
		"connections": len(r.joined),
	}
}
