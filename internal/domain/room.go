package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type (
	RoomID       string
	UserID       string
	ConnectionID string
	Theme        string
)

const (
	ThemeNone         Theme = "none"
	ThemeChristmas    Theme = "christmas"
	ThemeLunarNewYear Theme = "lunar-new-year"
)

// Room is a live screen-share room: one host, any number of viewers.
// Members is an ordered set — the host is always its first entry for the
// lifetime of the room.
type Room struct {
	ID        RoomID
	HostID    UserID
	Members   []UserID
	CreatedAt time.Time
	Theme     Theme
}

// NewRoomID derives a stable room identifier from the host's identity, so
// rejoining the same host always resolves to the same room.
func NewRoomID(hostID UserID) RoomID {
	sum := sha256.Sum256([]byte("room-" + string(hostID)))
	return RoomID("room-" + hex.EncodeToString(sum[:])[:12])
}

// NewRoom creates a room owned by hostID, with the host as its sole member.
func NewRoom(hostID UserID) *Room {
	return &Room{
		ID:        NewRoomID(hostID),
		HostID:    hostID,
		Members:   []UserID{hostID},
		CreatedAt: time.Now(),
		Theme:     ThemeNone,
	}
}

// HasMember reports whether uid is currently seated in the room.
func (r *Room) HasMember(uid UserID) bool {
	for _, m := range r.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// AddMember appends uid if not already present. No-op if present.
func (r *Room) AddMember(uid UserID) {
	if r.HasMember(uid) {
		return
	}
	r.Members = append(r.Members, uid)
}

// RemoveMember drops uid from the member set, preserving order of the rest.
func (r *Room) RemoveMember(uid UserID) {
	for i, m := range r.Members {
		if m == uid {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return
		}
	}
}

// IsHost reports whether uid is this room's host.
func (r *Room) IsHost(uid UserID) bool {
	return r.HostID == uid
}
