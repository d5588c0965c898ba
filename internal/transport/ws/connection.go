package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

const writeDeadline = 5 * time.Second

// Connection wraps one upgraded websocket: a buffered send channel
// drained by a single writer goroutine, guarded against writing after
// close. readLimit and pingPeriod are zero-valued unless set by
// newConnection, which is harmless: a zero pingPeriod just means the
// writer never starts its keepalive ticker.
type Connection struct {
	ID         domain.ConnectionID
	conn       *websocket.Conn
	send       chan []byte
	readLimit  int64
	pingPeriod time.Duration

	mu     sync.RWMutex
	closed bool
}

func newConnection(id domain.ConnectionID, conn *websocket.Conn, readLimit int64, pingPeriod time.Duration) *Connection {
	return &Connection{
		ID:         id,
		conn:       conn,
		send:       make(chan []byte, 32),
		readLimit:  readLimit,
		pingPeriod: pingPeriod,
	}
}

// pongWait is how long the read side tolerates silence before a
// connection is considered dead, derived from pingPeriod the same way
// gorilla/websocket's own chat example derives it from its ping period.
func (c *Connection) pongWait() time.Duration {
	return c.pingPeriod * 10 / 9
}

func (c *Connection) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *Connection) SendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Str("module", "ws").Err(err).Msg("marshal outbound message")
		return
	}
	if err := c.TrySend(data); err != nil {
		log.Warn().Str("module", "ws").Str("connection", string(c.ID)).Err(err).Msg("drop outbound message")
	}
}

func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	_ = c.conn.Close()
}

func (c *Connection) writePump() {
	if c.pingPeriod <= 0 {
		for data := range c.send {
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
		return
	}

	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// armReadDeadlines primes the read side's keepalive: an initial read
// deadline and a pong handler that refreshes it on every pong, so the
// connection dies if the client stops responding to pings.
func (c *Connection) armReadDeadlines() {
	if c.readLimit > 0 {
		c.conn.SetReadLimit(c.readLimit)
	}
	if c.pingPeriod <= 0 {
		return
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})
}
