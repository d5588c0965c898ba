package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/events"
)

// --- legacy WebRTC relay: offer/answer/ice-candidate are passed through
// verbatim between peers; the orchestrator never inspects SDP content. ---

func (o *Orchestrator) handleOffer(cid domain.ConnectionID, data []byte) {
	var in events.OfferIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	out := events.OfferOut{Type: events.TypeOffer, From: cid, Offer: in.SDP}
	if in.To != "" {
		o.pub.Send(in.To, out)
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	o.pub.Broadcast(rid, cid, out)
}

func (o *Orchestrator) handleAnswer(cid domain.ConnectionID, data []byte) {
	var in events.AnswerIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	o.pub.Broadcast(rid, cid, events.AnswerOut{Type: events.TypeAnswer, From: cid, Answer: in.SDP})
}

func (o *Orchestrator) handleICECandidate(cid domain.ConnectionID, data []byte) {
	var in events.ICECandidateIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	out := events.ICECandidateOut{
		Type:          events.TypeICECandidate,
		From:          cid,
		Candidate:     in.Candidate,
		SDPMid:        in.SDPMid,
		SDPMLineIndex: in.SDPMLineIndex,
	}
	if in.To != "" {
		o.pub.Send(in.To, out)
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	o.pub.Broadcast(rid, cid, out)
}

func (o *Orchestrator) handleStopSharing(cid domain.ConnectionID) {
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	o.pub.Broadcast(rid, cid, struct {
		Type string `json:"type"`
	}{Type: events.TypeStopSharing})
}

func (o *Orchestrator) handleHostReadyToShare(cid domain.ConnectionID) {
	uid, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	room, ok := o.reg.FindRoomByID(rid)
	if !ok || !room.IsHost(uid) {
		return
	}
	viewers := make([]domain.ConnectionID, 0, len(room.Members))
	for _, m := range room.Members {
		if m == uid {
			continue
		}
		if vc, ok := o.reg.GetUserSocket(m); ok {
			viewers = append(viewers, vc)
		}
	}
	o.pub.Send(cid, events.ExistingViewersOut{Type: events.TypeExistingViewers, Viewers: viewers})
}

func (o *Orchestrator) handleRequestStream(cid domain.ConnectionID) {
	uid, rid, ok := o.currentUser(cid)
	_ = uid
	if !ok {
		return
	}
	room, ok := o.reg.FindRoomByID(rid)
	if !ok {
		return
	}
	hostConn, ok := o.reg.GetUserSocket(room.HostID)
	if !ok {
		return
	}
	o.pub.Send(hostConn, events.RequestStreamOut{Type: events.TypeRequestStream, ConnectionID: cid})
}

func (o *Orchestrator) handleLivestreamReaction(cid domain.ConnectionID, data []byte) {
	var in events.LivestreamReactionIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	uid, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	name := string(uid)
	if p, ok := o.reg.GetPresence(uid); ok && p.Name != "" {
		name = p.Name
	}
	o.pub.Broadcast(rid, "", events.LivestreamReactionOut{
		Type:      events.TypeLivestreamReaction,
		ID:        uuid.NewString(),
		UserID:    uid,
		UserName:  name,
		Emoji:     in.Emoji,
		Timestamp: time.Now().UnixMilli(),
	})
}

// handleSpinResult is a passthrough broadcast: the emitted result is not
// validated or persisted, only relayed to the rest of the room.
func (o *Orchestrator) handleSpinResult(cid domain.ConnectionID, data []byte) {
	var in events.SpinResultIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok || rid != in.RoomID {
		return
	}
	o.pub.Broadcast(rid, cid, events.SpinResultOut{Type: events.TypeSpinResult, RoomID: in.RoomID, Result: in.Result})
}

func (o *Orchestrator) handleUpdateTheme(cid domain.ConnectionID, data []byte) {
	var in events.UpdateThemeIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	_, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	if !o.reg.SetTheme(rid, in.Theme) {
		return
	}
	o.pub.Broadcast(rid, "", events.ThemeUpdatedOut{Type: events.TypeThemeUpdated, Theme: in.Theme})
}
