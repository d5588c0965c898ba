package registry

import (
	"testing"

	"github.com/screenhall/roomctl/internal/domain"
)

func TestCreateRoomIsIdempotentForSameHost(t *testing.T) {
	r := New()
	room1 := r.CreateRoom("host-1")
	room2 := r.CreateRoom("host-1")
	if room1.ID != room2.ID {
		t.Fatalf("expected same room for repeated host, got %q and %q", room1.ID, room2.ID)
	}
	if len(room2.Members) != 1 {
		t.Fatalf("expected host to still be the sole member, got %v", room2.Members)
	}
}

func TestFindRoomByHost(t *testing.T) {
	r := New()
	created := r.CreateRoom("host-1")
	found, ok := r.FindRoomByHost("host-1")
	if !ok || found.ID != created.ID {
		t.Fatalf("expected to find room %q by host, got %v ok=%v", created.ID, found, ok)
	}
	if _, ok := r.FindRoomByHost("no-such-host"); ok {
		t.Fatalf("expected no room for a host that never created one")
	}
}

func TestAddAndRemoveMember(t *testing.T) {
	r := New()
	room := r.CreateRoom("host-1")

	if !r.AddMemberToRoom(room.ID, "viewer-1") {
		t.Fatalf("expected AddMemberToRoom to succeed for an existing room")
	}
	got, _ := r.FindRoomByID(room.ID)
	if !got.HasMember("viewer-1") {
		t.Fatalf("expected viewer-1 seated in room")
	}

	r.RemoveMemberFromRoom(room.ID, "viewer-1")
	got, _ = r.FindRoomByID(room.ID)
	if got.HasMember("viewer-1") {
		t.Fatalf("expected viewer-1 removed from room")
	}

	if r.AddMemberToRoom("no-such-room", "viewer-1") {
		t.Fatalf("expected AddMemberToRoom to fail for a nonexistent room")
	}
}

func TestDeleteRoom(t *testing.T) {
	r := New()
	room := r.CreateRoom("host-1")
	r.DeleteRoom(room.ID)
	if _, ok := r.FindRoomByID(room.ID); ok {
		t.Fatalf("expected room to be gone after delete")
	}
}

func TestSetTheme(t *testing.T) {
	r := New()
	room := r.CreateRoom("host-1")
	if !r.SetTheme(room.ID, domain.ThemeChristmas) {
		t.Fatalf("expected SetTheme to succeed for an existing room")
	}
	got, _ := r.FindRoomByID(room.ID)
	if got.Theme != domain.ThemeChristmas {
		t.Fatalf("expected theme updated, got %q", got.Theme)
	}
	if r.SetTheme("no-such-room", domain.ThemeChristmas) {
		t.Fatalf("expected SetTheme to fail for a nonexistent room")
	}
}

func TestConnectionBindings(t *testing.T) {
	r := New()
	r.SetUserSocket("u1", "c1")

	cid, ok := r.GetUserSocket("u1")
	if !ok || cid != "c1" {
		t.Fatalf("expected c1 bound to u1, got %q ok=%v", cid, ok)
	}
	uid, ok := r.FindUserIDBySocketID("c1")
	if !ok || uid != "u1" {
		t.Fatalf("expected u1 resolved from c1, got %q ok=%v", uid, ok)
	}

	r.DeleteUserSocket("u1")
	if _, ok := r.GetUserSocket("u1"); ok {
		t.Fatalf("expected socket binding removed")
	}
	if _, ok := r.FindUserIDBySocketID("c1"); ok {
		t.Fatalf("expected reverse socket binding removed too")
	}
}

func TestSetUserSocketRebindClearsStaleReverseBinding(t *testing.T) {
	r := New()
	r.SetUserSocket("u1", "c1")
	r.SetUserSocket("u1", "c2")

	if _, ok := r.FindUserIDBySocketID("c1"); ok {
		t.Fatalf("expected the old connection's reverse binding to be cleared on rebind")
	}
	uid, ok := r.FindUserIDBySocketID("c2")
	if !ok || uid != "u1" {
		t.Fatalf("expected u1 resolved from the new connection c2, got %q ok=%v", uid, ok)
	}
	cid, ok := r.GetUserSocket("u1")
	if !ok || cid != "c2" {
		t.Fatalf("expected u1 bound to c2, got %q ok=%v", cid, ok)
	}
}

func TestRoomBindings(t *testing.T) {
	r := New()
	r.SetUserRoom("u1", "room-1")
	rid, ok := r.GetUserRoom("u1")
	if !ok || rid != "room-1" {
		t.Fatalf("expected room-1 bound to u1, got %q ok=%v", rid, ok)
	}
	r.DeleteUserRoom("u1")
	if _, ok := r.GetUserRoom("u1"); ok {
		t.Fatalf("expected room binding removed")
	}
}

func TestPresenceLifecycle(t *testing.T) {
	r := New()
	p := domain.Presence{UserID: "u1", Name: "Alice", RoomID: "room-1", ConnectionID: "c1"}
	r.UpsertPresence(p)

	got, ok := r.GetPresence("u1")
	if !ok || got != p {
		t.Fatalf("expected presence %+v, got %+v ok=%v", p, got, ok)
	}

	r.DeletePresence("u1")
	if _, ok := r.GetPresence("u1"); ok {
		t.Fatalf("expected presence removed")
	}
}

func TestPresenceInRoomSnapshot(t *testing.T) {
	r := New()
	r.UpsertPresence(domain.Presence{UserID: "u1", RoomID: "room-1"})
	r.UpsertPresence(domain.Presence{UserID: "u2", RoomID: "room-1"})
	r.UpsertPresence(domain.Presence{UserID: "u3", RoomID: "room-2"})

	inRoom1 := r.PresenceInRoom("room-1")
	if len(inRoom1) != 2 {
		t.Fatalf("expected 2 presences in room-1, got %d", len(inRoom1))
	}
	inRoom2 := r.PresenceInRoom("room-2")
	if len(inRoom2) != 1 {
		t.Fatalf("expected 1 presence in room-2, got %d", len(inRoom2))
	}
}
