// Package ws is the Event Bus Adapter: per-connection identity assignment,
// room-scoped broadcast, and targeted send over gorilla/websocket. The
// connection wrapper and read/write pumps follow a standard buffered-send
// pattern; the hub generalizes an all-clients broadcast registry into a
// room-scoped one.
package ws

import (
	"sync"

	"github.com/screenhall/roomctl/internal/domain"
)

// Hub tracks which live connections currently belong to which room, so
// the orchestrator can broadcast without knowing about the transport.
type Hub struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[domain.ConnectionID]*Connection
	conns map[domain.ConnectionID]*Connection
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[domain.RoomID]map[domain.ConnectionID]*Connection),
		conns: make(map[domain.ConnectionID]*Connection),
	}
}

func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c
}

func (h *Hub) Unregister(id domain.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
	for rid, members := range h.rooms {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, rid)
		}
	}
}

func (h *Hub) Join(rid domain.RoomID, id domain.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[id]
	if !ok {
		return
	}
	members, ok := h.rooms[rid]
	if !ok {
		members = make(map[domain.ConnectionID]*Connection)
		h.rooms[rid] = members
	}
	members[id] = c
}

func (h *Hub) Leave(rid domain.RoomID, id domain.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[rid]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, rid)
		}
	}
}

func (h *Hub) Get(id domain.ConnectionID) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[id]
	return c, ok
}

// roomSnapshot copies the current room membership so callers can iterate
// and send without holding the hub lock.
func (h *Hub) roomSnapshot(rid domain.RoomID) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := h.rooms[rid]
	out := make([]*Connection, 0, len(members))
	for _, c := range members {
		out = append(out, c)
	}
	return out
}

// Broadcast sends v to every connection in rid, except excl (pass "" to
// send to everyone).
func (h *Hub) Broadcast(rid domain.RoomID, excl domain.ConnectionID, v any) {
	for _, c := range h.roomSnapshot(rid) {
		if c.ID == excl {
			continue
		}
		c.SendJSON(v)
	}
}

// Send targets a single connection by id; a no-op if it is gone.
func (h *Hub) Send(id domain.ConnectionID, v any) {
	if c, ok := h.Get(id); ok {
		c.SendJSON(v)
	}
}

// Kick forcibly closes a connection, e.g. when a host reconnects and the
// stale connection must be evicted before the new one takes over.
func (h *Hub) Kick(id domain.ConnectionID) {
	c, ok := h.Get(id)
	h.Unregister(id)
	if ok {
		c.Close()
	}
}
