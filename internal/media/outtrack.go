package media

import (
	"sync/atomic"

	"github.com/pion/webrtc/v4"
)

type trackState int32

const (
	trackStateOK trackState = iota
	trackStateMuted
	trackStateDelete
)

// outTrack is one consumer's view of a producer's track: the local RTP
// track handed to its own PeerConnection, plus a lock-free state flag the
// relay loop checks before every write.
type outTrack struct {
	track *webrtc.TrackLocalStaticRTP
	state atomic.Int32
}

func newOutTrack(track *webrtc.TrackLocalStaticRTP) *outTrack {
	return &outTrack{track: track}
}

func (ot *outTrack) getState() trackState { return trackState(ot.state.Load()) }
func (ot *outTrack) markOK()              { ot.state.Store(int32(trackStateOK)) }
func (ot *outTrack) markMuted()           { ot.state.Store(int32(trackStateMuted)) }
func (ot *outTrack) markDelete()          { ot.state.Store(int32(trackStateDelete)) }
