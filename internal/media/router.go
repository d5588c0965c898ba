package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

// Producer is one inbound track from a connection's send transport.
type Producer struct {
	ID           string
	ConnectionID domain.ConnectionID
	Kind         webrtc.RTPCodecType
	relay        *relay
}

// Consumer is one outbound track on a connection's recv transport,
// subscribed to a Producer's relay.
type Consumer struct {
	ID           string
	ProducerID   string
	ConnectionID domain.ConnectionID
	Paused       bool
	outTrack     *outTrack
}

// Router is the per-room media bundle: transports, producers, consumers,
// all owned by exactly one Worker. "Router" names this bundle, not a
// pion primitive — pion/webrtc has no SFU router type, so the bundle
// composes PeerConnections directly.
type Router struct {
	ID       string
	RoomID   domain.RoomID
	WorkerID int

	mu         sync.RWMutex
	transports map[string]*Transport
	producers  map[string]*Producer
	consumers  map[string]*Consumer
	nextEntity int
	api        *webrtc.API
}

func newRouter(roomID domain.RoomID, workerID int, announcedIP string) *Router {
	return &Router{
		ID:         fmt.Sprintf("router-%s-w%d", roomID, workerID),
		RoomID:     roomID,
		WorkerID:   workerID,
		transports: make(map[string]*Transport),
		producers:  make(map[string]*Producer),
		consumers:  make(map[string]*Consumer),
		api:        webrtcAPI(announcedIP),
	}
}

func (r *Router) logger() zerolog.Logger {
	return log.With().Str("module", "media.router").Str("router", r.ID).Logger()
}

func (r *Router) nextID(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextEntity++
	return fmt.Sprintf("%s-%s-%d", prefix, r.RoomID, r.nextEntity)
}

func (r *Router) createTransport(ctx context.Context, cid domain.ConnectionID, dir Direction, onICE func(webrtc.ICECandidateInit)) (*Transport, error) {
	t, err := newTransport(cid, dir, r.api, webrtcConfig())
	if err != nil {
		return nil, err
	}
	t.onICE = onICE
	t.start(ctx)

	r.mu.Lock()
	r.transports[t.ID] = t
	r.mu.Unlock()
	return t, nil
}

func (r *Router) getTransport(id string) (*Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transports[id]
	return t, ok
}

func (r *Router) closeTransport(id string) {
	r.mu.Lock()
	t, ok := r.transports[id]
	if ok {
		delete(r.transports, id)
	}
	r.mu.Unlock()
	if ok {
		t.close()
	}
}

// produce registers an inbound remote track as a new Producer and starts
// its relay loop. Called from the send transport's OnTrack callback.
func (r *Router) produce(ctx context.Context, cid domain.ConnectionID, track *webrtc.TrackRemote) *Producer {
	logger := r.logger()
	relayCtx, cancel := context.WithCancel(ctx)
	rl := newRelay(track, cancel)

	p := &Producer{
		ID:           r.nextID("producer"),
		ConnectionID: cid,
		Kind:         track.Kind(),
		relay:        rl,
	}

	r.mu.Lock()
	r.producers[p.ID] = p
	r.mu.Unlock()

	go rl.loop(relayCtx, &logger)
	logger.Info().Str("producer", p.ID).Str("connection", string(cid)).Msg("producer started")
	return p
}

func (r *Router) getProducer(id string) (*Producer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.producers[id]
	return p, ok
}

// producersExcept lists every live producer not owned by excl, for the
// getProducers reply and for eagerly wiring newcomers to existing feeds.
func (r *Router) producersExcept(excl domain.ConnectionID) []*Producer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Producer, 0, len(r.producers))
	for _, p := range r.producers {
		if p.ConnectionID != excl {
			out = append(out, p)
		}
	}
	return out
}

// consume creates a Consumer subscribed to producerID's relay, delivered
// over the destination connection's recv transport.
func (r *Router) consume(producerID string, dst domain.ConnectionID, recvTransport *Transport) (*Consumer, error) {
	p, ok := r.getProducer(producerID)
	if !ok {
		return nil, fmt.Errorf("producer %s not found", producerID)
	}

	localTrack, err := webrtc.NewTrackLocalStaticRTP(
		webrtc.RTPCodecCapability{MimeType: mimeTypeFor(p.Kind)},
		producerID, string(dst),
	)
	if err != nil {
		return nil, err
	}
	if _, err := recvTransport.addLocalTrack(localTrack); err != nil {
		return nil, err
	}

	ot := newOutTrack(localTrack)
	ot.markOK()
	p.relay.addOutTrack(dst, ot)

	c := &Consumer{
		ID:           r.nextID("consumer"),
		ProducerID:   producerID,
		ConnectionID: dst,
		Paused:       false,
		outTrack:     ot,
	}
	r.mu.Lock()
	r.consumers[c.ID] = c
	r.mu.Unlock()
	return c, nil
}

func (r *Router) resumeConsumer(id string) error {
	r.mu.RLock()
	c, ok := r.consumers[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("consumer %s not found", id)
	}
	c.Paused = false
	c.outTrack.markOK()
	return nil
}

func (r *Router) pauseConsumer(id string) error {
	r.mu.RLock()
	c, ok := r.consumers[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("consumer %s not found", id)
	}
	c.Paused = true
	c.outTrack.markMuted()
	return nil
}

// closeProducer stops the relay and removes every consumer subscribed to
// it. Returns the closed producer's id and whether it existed, so the
// caller can broadcast producerClosed.
func (r *Router) closeProducer(id string) (string, bool) {
	r.mu.Lock()
	p, ok := r.producers[id]
	if ok {
		delete(r.producers, id)
		for cid, c := range r.consumers {
			if c.ProducerID == id {
				delete(r.consumers, cid)
			}
		}
	}
	r.mu.Unlock()
	if !ok {
		return "", false
	}
	p.relay.stop()
	return id, true
}

// cleanupConnection tears down every transport owned by cid — used on
// disconnect/grace-commit and on host rebind. Producer ownership is not
// tracked per connection at this layer, so closing any transport closes
// every producer in the room and clears the producer map outright,
// rather than attempting to attribute producers to cid.
func (r *Router) cleanupConnection(cid domain.ConnectionID) []string {
	r.mu.Lock()
	var anyTransportClosed bool
	for tid, t := range r.transports {
		if t.ConnectionID == cid {
			delete(r.transports, tid)
			go t.close()
			anyTransportClosed = true
		}
	}

	var closedProducers []string
	if anyTransportClosed {
		for pid, p := range r.producers {
			closedProducers = append(closedProducers, pid)
			go p.relay.stop()
		}
		r.producers = make(map[string]*Producer)
		r.consumers = make(map[string]*Consumer)
	} else {
		for cid2, c := range r.consumers {
			if c.ConnectionID == cid {
				delete(r.consumers, cid2)
			}
		}
	}
	r.mu.Unlock()
	return closedProducers
}

func (r *Router) counts() (transports, producers, consumers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transports), len(r.producers), len(r.consumers)
}

// byteTotal sums GetStats() byte counters across every live transport in
// the router, feeding worker load sampling.
func (r *Router) byteTotal() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total uint64
	for _, t := range r.transports {
		total += t.byteCount()
	}
	return total
}

func (r *Router) closeAll() {
	r.mu.Lock()
	transports := make([]*Transport, 0, len(r.transports))
	for _, t := range r.transports {
		transports = append(transports, t)
	}
	relays := make([]*Producer, 0, len(r.producers))
	for _, p := range r.producers {
		relays = append(relays, p)
	}
	r.transports = make(map[string]*Transport)
	r.producers = make(map[string]*Producer)
	r.consumers = make(map[string]*Consumer)
	r.mu.Unlock()

	for _, t := range transports {
		t.close()
	}
	for _, p := range relays {
		p.relay.stop()
	}
}

func mimeTypeFor(kind webrtc.RTPCodecType) string {
	if kind == webrtc.RTPCodecTypeAudio {
		return webrtc.MimeTypeOpus
	}
	return webrtc.MimeTypeVP8
}
