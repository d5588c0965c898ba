package domain

import "testing"

func TestNewRoomIDDeterministic(t *testing.T) {
	a := NewRoomID("host-1")
	b := NewRoomID("host-1")
	if a != b {
		t.Fatalf("expected same host id to yield the same room id, got %q and %q", a, b)
	}
	c := NewRoomID("host-2")
	if a == c {
		t.Fatalf("expected different hosts to yield different room ids")
	}
}

func TestNewRoomSeatsHostAsSoleMember(t *testing.T) {
	r := NewRoom("host-1")
	if !r.HasMember("host-1") {
		t.Fatalf("expected host to be seated")
	}
	if len(r.Members) != 1 {
		t.Fatalf("expected exactly one member, got %d", len(r.Members))
	}
	if !r.IsHost("host-1") {
		t.Fatalf("expected host-1 to be recognized as host")
	}
}

func TestRoomAddMemberIsIdempotent(t *testing.T) {
	r := NewRoom("host-1")
	r.AddMember("viewer-1")
	r.AddMember("viewer-1")
	count := 0
	for _, m := range r.Members {
		if m == "viewer-1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected viewer-1 to appear exactly once, got %d", count)
	}
}

func TestRoomRemoveMemberPreservesOrder(t *testing.T) {
	r := NewRoom("host-1")
	r.AddMember("viewer-1")
	r.AddMember("viewer-2")
	r.RemoveMember("viewer-1")

	want := []UserID{"host-1", "viewer-2"}
	if len(r.Members) != len(want) {
		t.Fatalf("expected %v, got %v", want, r.Members)
	}
	for i, m := range want {
		if r.Members[i] != m {
			t.Fatalf("expected %v, got %v", want, r.Members)
		}
	}
}

func TestRoomRemoveMemberMissingIsNoOp(t *testing.T) {
	r := NewRoom("host-1")
	r.RemoveMember("nobody")
	if len(r.Members) != 1 {
		t.Fatalf("expected member set unchanged, got %v", r.Members)
	}
}
