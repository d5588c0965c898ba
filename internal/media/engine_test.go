package media

import (
	"testing"
	"time"
)

func TestCreateRouterIsIdempotentPerRoom(t *testing.T) {
	e, err := NewEngine(2, 2, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1 := e.CreateRouter("room-1")
	r2 := e.CreateRouter("room-1")
	if r1 != r2 {
		t.Fatalf("expected the same router returned for the same room")
	}
}

func TestCreateRouterPlacesOnDistinctWorkersRoundRobin(t *testing.T) {
	e, err := NewEngine(2, 2, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r1 := e.CreateRouter("room-1")
	r2 := e.CreateRouter("room-2")
	if r1.WorkerID == r2.WorkerID {
		t.Fatalf("expected two rooms placed on distinct workers via round robin, both landed on %d", r1.WorkerID)
	}
}

func TestGetRouterRTPCapabilitiesRequiresExistingRouter(t *testing.T) {
	e, err := NewEngine(1, 1, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.GetRouterRTPCapabilities("no-such-room"); ok {
		t.Fatalf("expected no capabilities for a room with no router")
	}
	e.CreateRouter("room-1")
	caps, ok := e.GetRouterRTPCapabilities("room-1")
	if !ok {
		t.Fatalf("expected capabilities once the router exists")
	}
	if len(caps.Codecs) == 0 {
		t.Fatalf("expected at least one registered codec")
	}
}

func TestCloseRoomRemovesRouterFromItsWorker(t *testing.T) {
	e, err := NewEngine(1, 1, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.CreateRouter("room-1")
	e.CloseRoom("room-1")

	if _, ok := e.getRouter("room-1"); ok {
		t.Fatalf("expected router removed after CloseRoom")
	}
	if _, ok := e.GetRouterRTPCapabilities("room-1"); ok {
		t.Fatalf("expected no capabilities after the room's router is closed")
	}
}

func TestProduceTimesOutWithoutAnArrivingTrack(t *testing.T) {
	e, err := NewEngine(1, 1, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.CreateRouter("room-1")
	_, err = e.Produce("room-1", "conn-1", 20*time.Millisecond)
	if err == nil {
		t.Fatalf("expected a timeout error when no track ever arrives")
	}
}

func TestCleanupUserMediaOnRoomWithNoRouterIsSafe(t *testing.T) {
	e, err := NewEngine(1, 1, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed := e.CleanupUserMedia("no-such-room", "conn-1")
	if closed != nil {
		t.Fatalf("expected nil, got %v", closed)
	}
}
