package media

import (
	"context"
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestTransportIDKeyFormat(t *testing.T) {
	id := transportID("conn-1", DirectionSend)
	if id != "conn-1-send" {
		t.Fatalf("expected %q, got %q", "conn-1-send", id)
	}
}

func TestCreateTransportIsKeyedByConnectionAndDirection(t *testing.T) {
	r := newRouter("room-1", 0, "")
	ctx := context.Background()

	send, err := r.createTransport(ctx, "conn-1", DirectionSend, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer send.close()
	if send.ID != "conn-1-send" {
		t.Fatalf("expected transport id %q, got %q", "conn-1-send", send.ID)
	}

	recv, err := r.createTransport(ctx, "conn-1", DirectionRecv, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer recv.close()
	if recv.ID == send.ID {
		t.Fatalf("expected send/recv transports to have distinct ids")
	}

	if _, ok := r.getTransport(send.ID); !ok {
		t.Fatalf("expected to find the send transport by id")
	}
}

func TestCloseTransportRemovesIt(t *testing.T) {
	r := newRouter("room-1", 0, "")
	tr, err := r.createTransport(context.Background(), "conn-1", DirectionSend, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.closeTransport(tr.ID)
	if _, ok := r.getTransport(tr.ID); ok {
		t.Fatalf("expected transport removed after close")
	}
}

func TestProducersExceptExcludesOwnConnection(t *testing.T) {
	r := newRouter("room-1", 0, "")
	r.producers["p1"] = &Producer{ID: "p1", ConnectionID: "conn-1"}
	r.producers["p2"] = &Producer{ID: "p2", ConnectionID: "conn-2"}

	others := r.producersExcept("conn-1")
	if len(others) != 1 || others[0].ID != "p2" {
		t.Fatalf("expected only p2 returned, got %v", others)
	}
}

func TestCloseProducerRemovesItsConsumers(t *testing.T) {
	r := newRouter("room-1", 0, "")
	rl := newRelay(nil, func() {})
	r.producers["p1"] = &Producer{ID: "p1", ConnectionID: "conn-1", relay: rl}
	r.consumers["c1"] = &Consumer{ID: "c1", ProducerID: "p1", ConnectionID: "conn-2"}
	r.consumers["c2"] = &Consumer{ID: "c2", ProducerID: "other", ConnectionID: "conn-3"}

	id, closed := r.closeProducer("p1")
	if !closed || id != "p1" {
		t.Fatalf("expected p1 reported closed, got id=%q closed=%v", id, closed)
	}
	if _, ok := r.getProducer("p1"); ok {
		t.Fatalf("expected producer removed")
	}
	if _, ok := r.consumers["c1"]; ok {
		t.Fatalf("expected consumer subscribed to p1 removed")
	}
	if _, ok := r.consumers["c2"]; !ok {
		t.Fatalf("expected consumer subscribed to a different producer untouched")
	}
}

// TestCleanupConnectionClosesAllRoomProducers exercises the literal
// cleanupUserMedia contract: closing any transport for a connection closes
// every producer in the room, not just the ones that connection owns,
// because producer ownership can't be attributed once a transport drops.
func TestCleanupConnectionClosesAllRoomProducers(t *testing.T) {
	r := newRouter("room-1", 0, "")
	tr, err := r.createTransport(context.Background(), "conn-1", DirectionSend, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rl1 := newRelay(nil, func() {})
	rl2 := newRelay(nil, func() {})
	r.producers["p1"] = &Producer{ID: "p1", ConnectionID: "conn-1", relay: rl1}
	r.producers["p2"] = &Producer{ID: "p2", ConnectionID: "conn-2", relay: rl2}
	r.consumers["c1"] = &Consumer{ID: "c1", ProducerID: "p1", ConnectionID: "conn-1"}
	r.consumers["c2"] = &Consumer{ID: "c2", ProducerID: "p2", ConnectionID: "conn-2"}

	closed := r.cleanupConnection("conn-1")
	if len(closed) != 2 {
		t.Fatalf("expected both room producers reported closed, got %v", closed)
	}
	if _, ok := r.getTransport(tr.ID); ok {
		t.Fatalf("expected conn-1's transport removed")
	}
	if _, ok := r.getProducer("p1"); ok {
		t.Fatalf("expected p1 removed")
	}
	if _, ok := r.getProducer("p2"); ok {
		t.Fatalf("expected p2 removed despite belonging to conn-2")
	}
	if len(r.consumers) != 0 {
		t.Fatalf("expected all consumers cleared, got %v", r.consumers)
	}
}

// TestCleanupConnectionWithNoTransportOnlyDropsOwnConsumers covers the
// other branch: a connection with no live transport (e.g. a viewer that
// never produced) only loses its own consumers, nothing room-wide.
func TestCleanupConnectionWithNoTransportOnlyDropsOwnConsumers(t *testing.T) {
	r := newRouter("room-1", 0, "")
	rl := newRelay(nil, func() {})
	r.producers["p1"] = &Producer{ID: "p1", ConnectionID: "conn-host", relay: rl}
	r.consumers["c1"] = &Consumer{ID: "c1", ProducerID: "p1", ConnectionID: "conn-2"}
	r.consumers["c2"] = &Consumer{ID: "c2", ProducerID: "p1", ConnectionID: "conn-3"}

	closed := r.cleanupConnection("conn-2")
	if len(closed) != 0 {
		t.Fatalf("expected no producers closed, got %v", closed)
	}
	if _, ok := r.getProducer("p1"); !ok {
		t.Fatalf("expected p1 untouched")
	}
	if _, ok := r.consumers["c1"]; ok {
		t.Fatalf("expected conn-2's consumer removed")
	}
	if _, ok := r.consumers["c2"]; !ok {
		t.Fatalf("expected conn-3's consumer untouched")
	}
}

func TestMimeTypeForKind(t *testing.T) {
	if got := mimeTypeFor(webrtc.RTPCodecTypeAudio); got != webrtc.MimeTypeOpus {
		t.Fatalf("expected opus for audio, got %q", got)
	}
	if got := mimeTypeFor(webrtc.RTPCodecTypeVideo); got != webrtc.MimeTypeVP8 {
		t.Fatalf("expected VP8 for video, got %q", got)
	}
}
