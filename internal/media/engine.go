// Package media is the Media Engine Facade: a worker pool of goroutine
// shards, each owning per-room Router bundles of WebRTC transports,
// producers and consumers, with CPU-gated auto-scaling and worker death
// recovery, generalized from a single always-on relay per session to a
// full room-scoped router with a bounded worker pool in front of it.
package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

type Engine struct {
	pool        *pool
	announcedIP string
	terminate   func()

	mu         sync.RWMutex
	routers    map[domain.RoomID]*Router
	awaitProds map[string]chan *Producer // keyed by roomID+connectionID
}

// NewEngine starts the worker pool. terminate is stored as the engine's
// pool-exhaustion hook; nothing in the engine calls it, because no code
// path reports a worker death to the pool (see pool.onWorkerDeath). A nil
// terminate is replaced by a no-op.
func NewEngine(minWorkers, maxWorkers int, announcedIP string, terminate func()) (*Engine, error) {
	p, err := newPool(minWorkers, maxWorkers)
	if err != nil {
		return nil, err
	}
	if terminate == nil {
		terminate = func() {}
	}
	return &Engine{
		pool:        p,
		announcedIP: announcedIP,
		terminate:   terminate,
		routers:     make(map[domain.RoomID]*Router),
		awaitProds:  make(map[string]chan *Producer),
	}, nil
}

// CreateRouter is idempotent: a room that already has a router gets it
// back. A fresh router is placed on the next worker round-robin and
// triggers an auto-scale pass.
func (e *Engine) CreateRouter(roomID domain.RoomID) *Router {
	e.mu.Lock()
	if r, ok := e.routers[roomID]; ok {
		e.mu.Unlock()
		return r
	}
	e.mu.Unlock()

	w := e.pool.nextWorker()
	r := newRouter(roomID, w.ID, e.announcedIP)
	w.addRouter(r)

	e.mu.Lock()
	e.routers[roomID] = r
	e.mu.Unlock()

	log.Info().Str("module", "media.engine").Str("room", string(roomID)).Int("worker", w.ID).Msg("router created")
	e.pool.autoscale(e.evictWorker)
	return r
}

func (e *Engine) getRouter(roomID domain.RoomID) (*Router, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.routers[roomID]
	return r, ok
}

// RTPCapabilities is a minimal capabilities DTO describing the codecs the
// engine's MediaEngine accepts, derived from pion's default codec set.
type RTPCapabilities struct {
	Codecs []string `json:"codecs"`
}

func (e *Engine) GetRouterRTPCapabilities(roomID domain.RoomID) (RTPCapabilities, bool) {
	if _, ok := e.getRouter(roomID); !ok {
		return RTPCapabilities{}, false
	}
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return RTPCapabilities{}, false
	}
	caps := RTPCapabilities{}
	for _, c := range m.GetCodecsByKind(webrtc.RTPCodecTypeAudio) {
		caps.Codecs = append(caps.Codecs, c.MimeType)
	}
	for _, c := range m.GetCodecsByKind(webrtc.RTPCodecTypeVideo) {
		caps.Codecs = append(caps.Codecs, c.MimeType)
	}
	return caps, true
}

// CreateWebRTCTransport creates a send or recv transport on the room's
// router, keyed "{connectionId}-{direction}".
func (e *Engine) CreateWebRTCTransport(ctx context.Context, roomID domain.RoomID, cid domain.ConnectionID, dir Direction, onICE func(webrtc.ICECandidateInit)) (*Transport, error) {
	r, ok := e.getRouter(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s has no router", roomID)
	}
	t, err := r.createTransport(ctx, cid, dir, onICE)
	if err != nil {
		return nil, err
	}
	if dir == DirectionSend {
		t.onTrack = func(ctx context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
			p := r.produce(ctx, cid, track)
			e.deliverProducer(roomID, cid, p)
		}
	}
	return t, nil
}

func (e *Engine) ConnectTransport(roomID domain.RoomID, transportID string, offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	r, ok := e.getRouter(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s has no router", roomID)
	}
	t, ok := r.getTransport(transportID)
	if !ok {
		return nil, fmt.Errorf("transport %s not found", transportID)
	}
	return t.applyOfferAndAnswer(offer)
}

func (e *Engine) AddICECandidate(roomID domain.RoomID, transportID string, c webrtc.ICECandidateInit) error {
	r, ok := e.getRouter(roomID)
	if !ok {
		return fmt.Errorf("room %s has no router", roomID)
	}
	t, ok := r.getTransport(transportID)
	if !ok {
		return fmt.Errorf("transport %s not found", transportID)
	}
	return t.addICECandidate(c)
}

func (e *Engine) deliverProducer(roomID domain.RoomID, cid domain.ConnectionID, p *Producer) {
	key := string(roomID) + "|" + string(cid)
	e.mu.Lock()
	ch, ok := e.awaitProds[key]
	e.mu.Unlock()
	if ok {
		select {
		case ch <- p:
		default:
		}
	}
}

// Produce waits for the send transport's track to arrive and registers
// as a Producer, up to timeout. Mirrors the client-initiated "produce"
// signaling call: by the time it resolves, RTP is already flowing.
func (e *Engine) Produce(roomID domain.RoomID, cid domain.ConnectionID, timeout time.Duration) (*Producer, error) {
	key := string(roomID) + "|" + string(cid)
	ch := make(chan *Producer, 1)
	e.mu.Lock()
	e.awaitProds[key] = ch
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.awaitProds, key)
		e.mu.Unlock()
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("no track arrived from %s within %s", cid, timeout)
	}
}

func (e *Engine) Consume(roomID domain.RoomID, producerID string, dst domain.ConnectionID, recvTransportID string) (*Consumer, error) {
	r, ok := e.getRouter(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s has no router", roomID)
	}
	t, ok := r.getTransport(recvTransportID)
	if !ok {
		return nil, fmt.Errorf("transport %s not found", recvTransportID)
	}
	return r.consume(producerID, dst, t)
}

func (e *Engine) ResumeConsumer(roomID domain.RoomID, consumerID string) error {
	r, ok := e.getRouter(roomID)
	if !ok {
		return fmt.Errorf("room %s has no router", roomID)
	}
	return r.resumeConsumer(consumerID)
}

func (e *Engine) GetProducers(roomID domain.RoomID, excl domain.ConnectionID) []*Producer {
	r, ok := e.getRouter(roomID)
	if !ok {
		return nil
	}
	return r.producersExcept(excl)
}

// CloseProducer is deliberately not ownership-checked: closing a
// producer is not distinguished by caller role.
func (e *Engine) CloseProducer(roomID domain.RoomID, producerID string) (string, bool) {
	r, ok := e.getRouter(roomID)
	if !ok {
		return "", false
	}
	return r.closeProducer(producerID)
}

func (e *Engine) CloseTransport(roomID domain.RoomID, transportID string) {
	if r, ok := e.getRouter(roomID); ok {
		r.closeTransport(transportID)
	}
}

// CleanupUserMedia tears down every transport a connection owns within a
// room. If any was closed, every producer and consumer in the room is
// closed too; otherwise only the connection's own consumers are dropped.
// It returns the producer ids that were closed so the caller can
// broadcast producerClosed for each.
func (e *Engine) CleanupUserMedia(roomID domain.RoomID, cid domain.ConnectionID) []string {
	r, ok := e.getRouter(roomID)
	if !ok {
		return nil
	}
	return r.cleanupConnection(cid)
}

// CloseRoom destroys a room's router atomically with room destruction.
func (e *Engine) CloseRoom(roomID domain.RoomID) {
	e.mu.Lock()
	r, ok := e.routers[roomID]
	if ok {
		delete(e.routers, roomID)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	r.closeAll()

	for _, w := range e.pool.snapshot() {
		w.removeRouter(roomID)
	}
	log.Info().Str("module", "media.engine").Str("room", string(roomID)).Msg("room closed")
	e.pool.autoscale(e.evictWorker)
}

func (e *Engine) evictWorker(w *Worker) {
	w.close()
}
