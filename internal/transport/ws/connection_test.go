package ws

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTrySendDeliversWithinBuffer(t *testing.T) {
	c := &Connection{ID: "conn-1", send: make(chan []byte, 1)}
	if err := c.TrySend([]byte("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case got := <-c.send:
		if string(got) != "hi" {
			t.Fatalf("expected %q, got %q", "hi", got)
		}
	default:
		t.Fatalf("expected a message queued on send channel")
	}
}

func TestTrySendReportsBackpressure(t *testing.T) {
	c := &Connection{ID: "conn-1", send: make(chan []byte, 1)}
	if err := c.TrySend([]byte("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.TrySend([]byte("second"))
	if !errors.Is(err, ErrBackpressure) {
		t.Fatalf("expected ErrBackpressure once the buffer is full, got %v", err)
	}
}

func TestTrySendAfterCloseFails(t *testing.T) {
	c := &Connection{ID: "conn-1", send: make(chan []byte, 1)}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if err := c.TrySend([]byte("hi")); err == nil {
		t.Fatalf("expected an error sending on a closed connection")
	}
}

func TestSendJSONMarshalsAndQueues(t *testing.T) {
	c := &Connection{ID: "conn-1", send: make(chan []byte, 1)}
	c.SendJSON(map[string]string{"type": "ping"})

	select {
	case got := <-c.send:
		var decoded map[string]string
		if err := json.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("unexpected unmarshal error: %v", err)
		}
		if decoded["type"] != "ping" {
			t.Fatalf("expected type=ping, got %v", decoded)
		}
	default:
		t.Fatalf("expected a message queued on send channel")
	}
}
