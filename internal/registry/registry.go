// Package registry holds the in-memory room/presence state: rooms,
// members, and the userID<->connectionID<->roomID bindings the rest of
// the orchestrator reads and mutates. It is a pure data structure — no
// transport, no media, no timers — guarded by a single mutex covering
// rooms, presence, and the three bindings.
package registry

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

type Registry struct {
	mu sync.RWMutex

	rooms    map[domain.RoomID]*domain.Room
	presence map[domain.UserID]*domain.Presence

	connByUser map[domain.UserID]domain.ConnectionID
	userByConn map[domain.ConnectionID]domain.UserID
	roomByUser map[domain.UserID]domain.RoomID
}

func New() *Registry {
	return &Registry{
		rooms:      make(map[domain.RoomID]*domain.Room),
		presence:   make(map[domain.UserID]*domain.Presence),
		connByUser: make(map[domain.UserID]domain.ConnectionID),
		userByConn: make(map[domain.ConnectionID]domain.UserID),
		roomByUser: make(map[domain.UserID]domain.RoomID),
	}
}

// CreateRoom is idempotent: a host who already owns a room gets it back,
// re-seated as a member if somehow missing.
func (r *Registry) CreateRoom(hostID domain.UserID) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := domain.NewRoomID(hostID)
	if room, ok := r.rooms[id]; ok {
		room.AddMember(hostID)
		return room
	}
	room := domain.NewRoom(hostID)
	r.rooms[room.ID] = room
	log.Info().Str("module", "registry").Str("room", string(room.ID)).Str("host", string(hostID)).Msg("room created")
	return room
}

func (r *Registry) FindRoomByID(id domain.RoomID) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// FindRoomByHost returns the room the given host currently owns, if any.
func (r *Registry) FindRoomByHost(hostID domain.UserID) (*domain.Room, bool) {
	return r.FindRoomByID(domain.NewRoomID(hostID))
}

func (r *Registry) DeleteRoom(id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	log.Info().Str("module", "registry").Str("room", string(id)).Msg("room deleted")
}

func (r *Registry) AddMemberToRoom(id domain.RoomID, uid domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return false
	}
	room.AddMember(uid)
	return true
}

func (r *Registry) RemoveMemberFromRoom(id domain.RoomID, uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		room.RemoveMember(uid)
	}
}

func (r *Registry) SetTheme(id domain.RoomID, theme domain.Theme) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return false
	}
	room.Theme = theme
	return true
}

// --- connection bindings ---

func (r *Registry) SetUserSocket(uid domain.UserID, cid domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.connByUser[uid]; ok && old != cid {
		delete(r.userByConn, old)
	}
	r.connByUser[uid] = cid
	r.userByConn[cid] = uid
}

func (r *Registry) GetUserSocket(uid domain.UserID) (domain.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cid, ok := r.connByUser[uid]
	return cid, ok
}

func (r *Registry) DeleteUserSocket(uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cid, ok := r.connByUser[uid]; ok {
		delete(r.userByConn, cid)
	}
	delete(r.connByUser, uid)
}

func (r *Registry) FindUserIDBySocketID(cid domain.ConnectionID) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.userByConn[cid]
	return uid, ok
}

// --- room bindings ---

func (r *Registry) SetUserRoom(uid domain.UserID, rid domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomByUser[uid] = rid
}

func (r *Registry) GetUserRoom(uid domain.UserID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rid, ok := r.roomByUser[uid]
	return rid, ok
}

func (r *Registry) DeleteUserRoom(uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roomByUser, uid)
}

// --- presence ---

func (r *Registry) UpsertPresence(p domain.Presence) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presence[p.UserID] = &p
}

func (r *Registry) GetPresence(uid domain.UserID) (domain.Presence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presence[uid]
	if !ok {
		return domain.Presence{}, false
	}
	return *p, true
}

func (r *Registry) DeletePresence(uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.presence, uid)
}

// PresenceInRoom snapshots every presence record currently bound to rid.
// The snapshot is a point-in-time copy, safe to iterate without holding
// the registry lock.
func (r *Registry) PresenceInRoom(rid domain.RoomID) []domain.Presence {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Presence, 0, len(r.presence))
	for _, p := range r.presence {
		if p.RoomID == rid {
			out = append(out, *p)
		}
	}
	return out
}
