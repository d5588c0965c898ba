package media

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
)

type Direction string

const (
	DirectionSend Direction = "send"
	DirectionRecv Direction = "recv"
)

// transportID is the router's transport map key: one send transport and
// one recv transport per connection.
func transportID(cid domain.ConnectionID, dir Direction) string {
	return fmt.Sprintf("%s-%s", cid, dir)
}

// Transport wraps one WebRTC PeerConnection, one per connection per
// direction.
type Transport struct {
	ID           string
	ConnectionID domain.ConnectionID
	Direction    Direction

	pc     *webrtc.PeerConnection
	cancel context.CancelFunc

	onICE   func(webrtc.ICECandidateInit)
	onTrack func(ctx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
	onClose func()
}

func webrtcConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
	}
}

// webrtcAPI builds the API a router's transports are created through. When
// announcedIP is set (deployments behind a NAT/load balancer with a known
// public address), it's published as a host candidate via SettingEngine so
// remote peers get a dialable address instead of the container's private one.
func webrtcAPI(announcedIP string) *webrtc.API {
	se := webrtc.SettingEngine{}
	if announcedIP != "" {
		se.SetNAT1To1IPs([]string{announcedIP}, webrtc.ICECandidateTypeHost)
	}
	return webrtc.NewAPI(webrtc.WithSettingEngine(se))
}

func newTransport(cid domain.ConnectionID, dir Direction, api *webrtc.API, cfg webrtc.Configuration) (*Transport, error) {
	pc, err := api.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &Transport{
		ID:           transportID(cid, dir),
		ConnectionID: cid,
		Direction:    dir,
		pc:           pc,
	}, nil
}

func (t *Transport) start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c != nil && t.onICE != nil {
			t.onICE(c.ToJSON())
		}
	})
	t.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "media.transport").Str("transport", t.ID).Str("state", s.String()).Msg("peer connection state")
		if s == webrtc.PeerConnectionStateFailed || s == webrtc.PeerConnectionStateClosed {
			if t.onClose != nil {
				t.onClose()
			}
		}
	})
	t.pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		if t.onTrack != nil {
			t.onTrack(ctx, track, receiver)
		}
	})
}

func (t *Transport) applyOfferAndAnswer(offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	if err := t.pc.SetRemoteDescription(offer); err != nil {
		return nil, err
	}
	answer, err := t.pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}
	gatherComplete := webrtc.GatheringCompletePromise(t.pc)
	if err := t.pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	<-gatherComplete
	return t.pc.LocalDescription(), nil
}

func (t *Transport) addICECandidate(c webrtc.ICECandidateInit) error {
	return t.pc.AddICECandidate(c)
}

func (t *Transport) addLocalTrack(track *webrtc.TrackLocalStaticRTP) (*webrtc.RTPSender, error) {
	return t.pc.AddTrack(track)
}

// byteCount sums the transport-level bytes sent and received across this
// PeerConnection's stats report — the real signal worker load sampling is
// seeded from, since Go exposes no per-goroutine CPU accounting.
func (t *Transport) byteCount() uint64 {
	if t.pc == nil {
		return 0
	}
	var total uint64
	for _, s := range t.pc.GetStats() {
		if ts, ok := s.(webrtc.TransportStats); ok {
			total += ts.BytesSent + ts.BytesReceived
		}
	}
	return total
}

func (t *Transport) close() {
	if t.cancel != nil {
		t.cancel()
	}
	if t.pc != nil {
		_ = t.pc.Close()
	}
}
