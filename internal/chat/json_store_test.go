package chat

import (
	"path/filepath"
	"testing"

	"github.com/screenhall/roomctl/internal/apperr"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	return s
}

func TestJSONStoreSaveAndGetMessages(t *testing.T) {
	s := newTestStore(t)
	msg := Message{ID: "m1", RoomID: "room-1", UserID: "u1", Text: "hi"}
	if err := s.SaveMessage(msg); err != nil {
		t.Fatalf("unexpected error saving message: %v", err)
	}

	got, err := s.GetMessages("room-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("expected to get back the saved message, got %v", got)
	}

	other, err := s.GetMessages("room-2", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no messages for a different room, got %v", other)
	}
}

func TestJSONStoreGetMessagesRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		if err := s.SaveMessage(Message{ID: string(rune('a' + i)), RoomID: "room-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, err := s.GetMessages("room-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2 messages, got %d", len(got))
	}
	if got[0].ID != "d" || got[1].ID != "e" {
		t.Fatalf("expected the most recent messages, got %v", got)
	}
}

func TestJSONStoreDeleteRoomMessages(t *testing.T) {
	s := newTestStore(t)
	_ = s.SaveMessage(Message{ID: "m1", RoomID: "room-1"})
	_ = s.SaveMessage(Message{ID: "m2", RoomID: "room-2"})

	if err := s.DeleteRoomMessages("room-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining, _ := s.GetMessages("room-1", 0)
	if len(remaining) != 0 {
		t.Fatalf("expected room-1 messages cleared, got %v", remaining)
	}
	other, _ := s.GetMessages("room-2", 0)
	if len(other) != 1 {
		t.Fatalf("expected room-2 messages untouched, got %v", other)
	}
}

func TestJSONStoreAddReactionTogglesAndPersists(t *testing.T) {
	s := newTestStore(t)
	_ = s.SaveMessage(Message{ID: "m1", RoomID: "room-1"})

	msg, err := s.AddReaction("room-1", "m1", "u1", "👍")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.Reactions) != 1 || len(msg.Reactions[0].UserIDs) != 1 {
		t.Fatalf("expected one reaction with one user, got %+v", msg.Reactions)
	}

	msg, err = s.AddReaction("room-1", "m1", "u1", "👍")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.Reactions) != 0 {
		t.Fatalf("expected reaction toggled off, got %+v", msg.Reactions)
	}
}

func TestJSONStoreAddReactionMissingMessage(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddReaction("room-1", "missing", "u1", "👍")
	if err != apperr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJSONStorePersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	s1, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = s1.SaveMessage(Message{ID: "m1", RoomID: "room-1"})

	s2, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("unexpected error reloading store: %v", err)
	}
	got, err := s2.GetMessages("room-1", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected persisted message to survive reload, got %v err=%v", got, err)
	}
}
