// Package chat implements the Chat & Reaction Coordinator: message
// persistence, profanity pre-checks, and reaction toggling, delegated to
// a pluggable Store collaborator.
package chat

import "github.com/screenhall/roomctl/internal/domain"

// Reaction is a set of users who reacted to a message with a given emoji.
type Reaction struct {
	Emoji   string          `json:"emoji"`
	UserIDs []domain.UserID `json:"userIds"`
}

// Message is a persisted chat entry.
type Message struct {
	ID        string         `json:"id"`
	RoomID    domain.RoomID  `json:"roomId"`
	UserID    domain.UserID  `json:"userId"`
	UserName  string         `json:"userName"`
	Text      string         `json:"message"`
	Timestamp int64          `json:"timestamp"` // unix millis
	Reactions []Reaction     `json:"reactions,omitempty"`
}

func (m *Message) toggleReaction(emoji string, uid domain.UserID) {
	for i := range m.Reactions {
		if m.Reactions[i].Emoji != emoji {
			continue
		}
		for j, u := range m.Reactions[i].UserIDs {
			if u == uid {
				m.Reactions[i].UserIDs = append(m.Reactions[i].UserIDs[:j], m.Reactions[i].UserIDs[j+1:]...)
				if len(m.Reactions[i].UserIDs) == 0 {
					m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
				}
				return
			}
		}
		m.Reactions[i].UserIDs = append(m.Reactions[i].UserIDs, uid)
		return
	}
	m.Reactions = append(m.Reactions, Reaction{Emoji: emoji, UserIDs: []domain.UserID{uid}})
}
