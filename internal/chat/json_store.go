package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/screenhall/roomctl/internal/apperr"
	"github.com/screenhall/roomctl/internal/domain"
)

// JSONStore is the local, file-backed Store: the entire message set is
// held in memory and flushed to a single JSON file on every mutation.
// This is the one surface this repository builds on the standard library
// on purpose — see DESIGN.md — because "local JSON file snapshot" is the
// literal shape of this backend.
type JSONStore struct {
	mu       sync.Mutex
	path     string
	messages []Message
}

func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.messages)
}

func (s *JSONStore) flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s.messages, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *JSONStore) SaveMessage(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.flush()
}

func (s *JSONStore) GetMessages(roomID domain.RoomID, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Message
	for _, m := range s.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *JSONStore) DeleteRoomMessages(roomID domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Message, 0, len(s.messages))
	for _, m := range s.messages {
		if m.RoomID != roomID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return s.flush()
}

func (s *JSONStore) AddReaction(roomID domain.RoomID, messageID string, uid domain.UserID, emoji string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].RoomID == roomID && s.messages[i].ID == messageID {
			s.messages[i].toggleReaction(emoji, uid)
			if err := s.flush(); err != nil {
				return Message{}, err
			}
			return s.messages[i], nil
		}
	}
	return Message{}, apperr.ErrNotFound
}
