package chat

import "github.com/screenhall/roomctl/internal/domain"

// Store is the persistence collaborator chat messages are written
// through. Two concrete adapters are provided: a local JSON file
// snapshot and a document-store (mongo-driver) backend.
type Store interface {
	SaveMessage(msg Message) error
	GetMessages(roomID domain.RoomID, limit int) ([]Message, error)
	DeleteRoomMessages(roomID domain.RoomID) error
	AddReaction(roomID domain.RoomID, messageID string, uid domain.UserID, emoji string) (Message, error)
}
