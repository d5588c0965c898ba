package domain

// Presence is the registry's view of one user identity: who they are,
// which room (if any) they currently sit in, and which live connection
// currently speaks for them. It survives a transport drop for the
// duration of the reconnection grace period.
type Presence struct {
	UserID       UserID
	Name         string
	RoomID       RoomID
	ConnectionID ConnectionID
}

// InRoom reports whether this presence record currently belongs to a room.
func (p Presence) InRoom() bool {
	return p.RoomID != ""
}
