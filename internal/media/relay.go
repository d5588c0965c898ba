package media

import (
	"context"
	"maps"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/screenhall/roomctl/internal/domain"
)

// relay forwards RTP packets from one producer's remote track to every
// consumer subscribed to it, without decoding or transcoding: a read loop
// over the source track, fanned out to a snapshot of outTracks, with
// dead/closed consumers cleaned up outside the read lock.
type relay struct {
	src *webrtc.TrackRemote

	mu        sync.RWMutex
	outTracks map[domain.ConnectionID]*outTrack

	cancel context.CancelFunc
}

func newRelay(src *webrtc.TrackRemote, cancel context.CancelFunc) *relay {
	return &relay{
		src:       src,
		outTracks: make(map[domain.ConnectionID]*outTrack),
		cancel:    cancel,
	}
}

func (r *relay) loop(ctx context.Context, logger *zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			r.markAllDelete()
			return
		default:
		}
		pkt, _, err := r.src.ReadRTP()
		if err != nil {
			logger.Error().Err(err).Msg("relay read RTP error, stopping")
			r.markAllDelete()
			return
		}
		r.forward(pkt, logger)
	}
}

func (r *relay) forward(pkt *rtp.Packet, logger *zerolog.Logger) {
	snapshot := make(map[domain.ConnectionID]*outTrack, len(r.outTracks))
	r.mu.RLock()
	maps.Copy(snapshot, r.outTracks)
	r.mu.RUnlock()

	var dirty []domain.ConnectionID
	for dst, ot := range snapshot {
		switch ot.getState() {
		case trackStateDelete:
			dirty = append(dirty, dst)
		case trackStateMuted:
		case trackStateOK:
			if err := ot.track.WriteRTP(pkt); err != nil {
				logger.Error().Err(err).Str("dst", string(dst)).Msg("relay write RTP error")
				ot.markDelete()
				dirty = append(dirty, dst)
			}
		}
	}
	if len(dirty) > 0 {
		r.cleanupDeleted(dirty)
	}
}

func (r *relay) cleanupDeleted(dirty []domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dst := range dirty {
		delete(r.outTracks, dst)
	}
}

func (r *relay) markAllDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ot := range r.outTracks {
		ot.markDelete()
	}
}

func (r *relay) addOutTrack(dst domain.ConnectionID, ot *outTrack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outTracks[dst] = ot
}

func (r *relay) removeOutTrack(dst domain.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.outTracks, dst)
}

func (r *relay) stop() {
	if r.cancel != nil {
		r.cancel()
	}
}
