// Package orchestrator is the Signaling Orchestrator: it owns the event
// dispatch table and ties the Room Registry, Presence Controller, Media
// Engine Facade and Chat Coordinator together over the event bus.
// Dispatch is keyed the same way as a Join/Move/KickBySID/OnDisconnect/
// OnTrack table, generalized from a single flat room model to the full
// room/presence/media/chat event table.
package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/chat"
	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/events"
	"github.com/screenhall/roomctl/internal/media"
	"github.com/screenhall/roomctl/internal/presence"
	"github.com/screenhall/roomctl/internal/registry"
)

// Publisher is the transport-facing half of the Event Bus Adapter the
// orchestrator depends on. Satisfied by *ws.Hub; kept as an interface so
// this package never imports gorilla/websocket.
type Publisher interface {
	Send(id domain.ConnectionID, v any)
	Broadcast(rid domain.RoomID, excl domain.ConnectionID, v any)
	Join(rid domain.RoomID, id domain.ConnectionID)
	Leave(rid domain.RoomID, id domain.ConnectionID)
	Kick(id domain.ConnectionID)
}

type Orchestrator struct {
	// mu is the single exclusion domain for Registry/Presence/media-router
	// map mutations the concurrency model requires; it is never held
	// across a Media Engine or Chat Store call.
	mu sync.Mutex

	reg      *registry.Registry
	presence *presence.Controller
	mediaEng *media.Engine
	chatCo   *chat.Coordinator
	pub      Publisher
}

func New(reg *registry.Registry, pc *presence.Controller, me *media.Engine, cc *chat.Coordinator, pub Publisher) *Orchestrator {
	return &Orchestrator{reg: reg, presence: pc, mediaEng: me, chatCo: cc, pub: pub}
}

// HandleMessage is the single inbound entry point from the transport
// layer: decode the discriminator, dispatch to the matching handler.
func (o *Orchestrator) HandleMessage(cid domain.ConnectionID, data []byte) {
	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Str("module", "orchestrator").Str("connection", string(cid)).Err(err).Msg("bad envelope")
		return
	}

	switch env.Type {
	case events.TypeCreateRoom:
		o.handleCreateRoom(cid, data)
	case events.TypeValidateRoom:
		o.handleValidateRoom(cid, data)
	case events.TypeJoinRoom:
		o.handleJoinRoom(cid, data)
	case events.TypeLeaveRoom:
		o.handleLeaveRoom(cid)
	case events.TypeOffer:
		o.handleOffer(cid, data)
	case events.TypeAnswer:
		o.handleAnswer(cid, data)
	case events.TypeICECandidate:
		o.handleICECandidate(cid, data)
	case events.TypeStopSharing:
		o.handleStopSharing(cid)
	case events.TypeHostReadyToShare:
		o.handleHostReadyToShare(cid)
	case events.TypeRequestStream:
		o.handleRequestStream(cid)
	case events.TypeLivestreamReaction:
		o.handleLivestreamReaction(cid, data)
	case events.TypeSpinResult:
		o.handleSpinResult(cid, data)
	case events.TypeUpdateTheme:
		o.handleUpdateTheme(cid, data)
	case events.TypeSendMessage:
		o.handleSendMessage(cid, data)
	case events.TypeReactToMessage:
		o.handleReactToMessage(cid, data)
	case events.TypeGetRouterRtpCaps:
		o.handleGetRouterRtpCapabilities(cid)
	case events.TypeCreateTransport:
		o.handleCreateTransport(cid, data)
	case events.TypeConnectTransport:
		o.handleConnectTransport(cid, data)
	case events.TypeProduce:
		o.handleProduce(cid, data)
	case events.TypeConsume:
		o.handleConsume(cid, data)
	case events.TypeResumeConsumer:
		o.handleResumeConsumer(cid, data)
	case events.TypeGetProducers:
		o.handleGetProducers(cid)
	case events.TypeCloseProducer:
		o.handleCloseProducer(cid, data)
	default:
		log.Warn().Str("module", "orchestrator").Str("type", env.Type).Msg("unknown event")
	}
}

// HandleDisconnect resolves the user behind a dropped connection and
// arms its reconnection grace timer. The liveness recheck happens inside
// the timer callback, not here — a fast reconnect must be able to cancel
// this before it ever fires.
func (o *Orchestrator) HandleDisconnect(cid domain.ConnectionID) {
	o.mu.Lock()
	uid, ok := o.reg.FindUserIDBySocketID(cid)
	o.mu.Unlock()
	if !ok {
		return
	}

	log.Info().Str("module", "orchestrator").Str("user", string(uid)).Str("connection", string(cid)).Msg("connection dropped, arming grace timer")
	o.presence.Arm(uid, func() { o.commitDeparture(uid, cid) })
}

// commitDeparture runs at grace-timer expiry. It re-checks the registry
// for a live connection before acting — the timer is advisory, not
// authoritative.
func (o *Orchestrator) commitDeparture(uid domain.UserID, atFireConnectionID domain.ConnectionID) {
	o.mu.Lock()
	current, ok := o.reg.GetUserSocket(uid)
	if ok && current != atFireConnectionID {
		o.mu.Unlock()
		log.Info().Str("module", "orchestrator").Str("user", string(uid)).Msg("liveness recheck: user reconnected, skipping departure")
		return
	}

	rid, inRoom := o.reg.GetUserRoom(uid)
	o.mu.Unlock()
	if !inRoom {
		o.cleanupIdentity(uid)
		return
	}

	o.departRoom(rid, uid, atFireConnectionID)
}

// departRoom commits a user's permanent departure from rid: host
// departure destroys the room, viewer departure just leaves it.
func (o *Orchestrator) departRoom(rid domain.RoomID, uid domain.UserID, cid domain.ConnectionID) {
	o.mu.Lock()
	room, ok := o.reg.FindRoomByID(rid)
	if !ok {
		o.mu.Unlock()
		o.cleanupIdentity(uid)
		return
	}
	isHost := room.IsHost(uid)
	o.mu.Unlock()

	closedProducers := o.mediaEng.CleanupUserMedia(rid, cid)
	for _, pid := range closedProducers {
		o.pub.Broadcast(rid, "", events.ProducerClosedOut{Type: events.TypeProducerClosed, ProducerID: pid})
	}

	if isHost {
		o.destroyRoom(rid, uid)
		return
	}

	o.mu.Lock()
	o.reg.RemoveMemberFromRoom(rid, uid)
	o.reg.DeleteUserRoom(uid)
	if updated, ok := o.reg.FindRoomByID(rid); ok {
		room = updated
	}
	o.mu.Unlock()
	o.pub.Leave(rid, cid)
	o.pub.Broadcast(rid, "", events.MemberLeftOut{Type: events.TypeMemberLeft, UserID: uid, Members: o.memberViews(room)})
	o.cleanupIdentity(uid)
}

// destroyRoom commits the definitive departure of a room's host: every
// remaining member first sees member-left for the host, then room-deleted.
func (o *Orchestrator) destroyRoom(rid domain.RoomID, hostUID domain.UserID) {
	o.mu.Lock()
	members := make([]domain.UserID, 0)
	var remaining []events.MemberView
	if room, ok := o.reg.FindRoomByID(rid); ok {
		members = append(members, room.Members...)
		for _, m := range room.Members {
			if m == hostUID {
				continue
			}
			name := string(m)
			if p, ok := o.reg.GetPresence(m); ok && p.Name != "" {
				name = p.Name
			}
			remaining = append(remaining, events.MemberView{UserID: m, Name: name, IsHost: false})
		}
	}
	o.reg.DeleteRoom(rid)
	for _, m := range members {
		o.reg.DeleteUserRoom(m)
	}
	o.mu.Unlock()

	o.pub.Broadcast(rid, "", events.MemberLeftOut{Type: events.TypeMemberLeft, UserID: hostUID, Members: remaining})
	o.pub.Broadcast(rid, "", events.RoomDeletedOut{Type: events.TypeRoomDeleted, RoomID: rid, Message: "Host has left the room"})
	o.mediaEng.CloseRoom(rid)
	o.chatCo.ClearRoom(rid)
	for _, m := range members {
		o.cleanupIdentity(m)
	}
	log.Info().Str("module", "orchestrator").Str("room", string(rid)).Msg("room destroyed")
}

func (o *Orchestrator) cleanupIdentity(uid domain.UserID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reg.DeleteUserSocket(uid)
	o.reg.DeletePresence(uid)
}

// ctxFor bounds transport-setup operations; the SFU never keeps a
// request-scoped context alive past the handler that created it.
func ctxFor() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// currentUser resolves the userID and roomID bound to an already-joined
// connection. Handlers that require room membership call this first and
// return without a reply if the connection isn't seated anywhere.
func (o *Orchestrator) currentUser(cid domain.ConnectionID) (domain.UserID, domain.RoomID, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	uid, ok := o.reg.FindUserIDBySocketID(cid)
	if !ok {
		return "", "", false
	}
	rid, ok := o.reg.GetUserRoom(uid)
	if !ok {
		return uid, "", false
	}
	return uid, rid, true
}

func (o *Orchestrator) sendError(cid domain.ConnectionID, message string) {
	o.pub.Send(cid, events.NewError(message))
}
