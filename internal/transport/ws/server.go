package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

// Dispatcher is implemented by the Signaling Orchestrator. The transport
// layer never reaches into orchestrator internals, and the orchestrator
// never imports gorilla/websocket — only this narrow interface crosses
// the boundary.
type Dispatcher interface {
	HandleMessage(cid domain.ConnectionID, data []byte)
	HandleDisconnect(cid domain.ConnectionID)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	Hub        *Hub
	Dispatcher Dispatcher
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewServer(hub *Hub, d Dispatcher) *Server {
	return &Server{Hub: hub, Dispatcher: d}
}

// HandleUpgrade mounts as the single signaling route. Each accepted
// connection is assigned a fresh connectionId and gets its own
// read/write pump pair.
func (s *Server) HandleUpgrade(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Str("module", "ws").Err(err).Msg("upgrade failed")
		return
	}

	cid := domain.ConnectionID(uuid.NewString())
	wc := newConnection(cid, conn, s.ReadLimit, s.PingPeriod)
	wc.armReadDeadlines()
	s.Hub.Register(wc)

	log.Info().Str("module", "ws").Str("connection", string(cid)).Msg("connection opened")

	go wc.writePump()
	go s.readPump(wc)
}

func (s *Server) readPump(c *Connection) {
	defer func() {
		s.Hub.Unregister(c.ID)
		c.Close()
		s.Dispatcher.HandleDisconnect(c.ID)
		log.Info().Str("module", "ws").Str("connection", string(c.ID)).Msg("connection closed")
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		s.Dispatcher.HandleMessage(c.ID, data)
	}
}
