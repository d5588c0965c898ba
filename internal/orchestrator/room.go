package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/events"
)

func (o *Orchestrator) memberViews(room *domain.Room) []events.MemberView {
	views := make([]events.MemberView, 0, len(room.Members))
	for _, uid := range room.Members {
		name := string(uid)
		if p, ok := o.reg.GetPresence(uid); ok && p.Name != "" {
			name = p.Name
		}
		views = append(views, events.MemberView{UserID: uid, Name: name, IsHost: room.IsHost(uid)})
	}
	return views
}

func (o *Orchestrator) handleCreateRoom(cid domain.ConnectionID, data []byte) {
	var in events.CreateRoomIn
	if err := json.Unmarshal(data, &in); err != nil || in.HostID == "" {
		o.sendError(cid, "invalid create-room payload")
		return
	}

	o.presence.Cancel(in.HostID)

	o.mu.Lock()
	existing, hasExisting := o.reg.FindRoomByHost(in.HostID)
	var oldConn domain.ConnectionID
	var hadOldConn bool
	if hasExisting {
		oldConn, hadOldConn = o.reg.GetUserSocket(in.HostID)
	}
	o.mu.Unlock()

	reconnectWithViewers := false

	if hasExisting {
		if hadOldConn && oldConn != cid {
			closed := o.mediaEng.CleanupUserMedia(existing.ID, oldConn)
			for _, pid := range closed {
				o.pub.Broadcast(existing.ID, "", events.ProducerClosedOut{Type: events.TypeProducerClosed, ProducerID: pid})
			}
			o.mu.Lock()
			o.reg.SetUserSocket(in.HostID, cid)
			o.mu.Unlock()
			o.pub.Kick(oldConn)
		}

		if len(existing.Members) <= 1 {
			o.mu.Lock()
			o.reg.DeleteRoom(existing.ID)
			o.mu.Unlock()
			o.mediaEng.CloseRoom(existing.ID)
		} else {
			reconnectWithViewers = true
		}
	}

	o.mu.Lock()
	room := o.reg.CreateRoom(in.HostID)
	o.reg.SetUserSocket(in.HostID, cid)
	o.reg.SetUserRoom(in.HostID, room.ID)
	name := in.Name
	if name == "" {
		name = string(in.HostID)
	}
	o.reg.UpsertPresence(domain.Presence{UserID: in.HostID, Name: name, RoomID: room.ID, ConnectionID: cid})
	o.mu.Unlock()

	o.pub.Join(room.ID, cid)
	o.mediaEng.CreateRouter(room.ID)

	o.pub.Send(cid, events.RoomCreatedOut{
		Type:    events.TypeRoomCreated,
		RoomID:  room.ID,
		Members: o.memberViews(room),
		Theme:   room.Theme,
	})

	if reconnectWithViewers {
		o.pub.Broadcast(room.ID, cid, events.HostReconnectedOut{
			Type:         events.TypeHostReconnected,
			HostID:       in.HostID,
			HostSocketID: cid,
		})
	}

	o.sendChatHistory(cid, room.ID)
	log.Info().Str("module", "orchestrator").Str("room", string(room.ID)).Str("host", string(in.HostID)).Msg("create-room handled")
}

func (o *Orchestrator) handleValidateRoom(cid domain.ConnectionID, data []byte) {
	var in events.ValidateRoomIn
	if err := json.Unmarshal(data, &in); err != nil {
		o.sendError(cid, "invalid validate-room payload")
		return
	}
	room, ok := o.reg.FindRoomByID(in.RoomID)
	out := events.RoomValidatedOut{Type: events.TypeRoomValidated, RoomID: in.RoomID, Exists: ok}
	if ok {
		out.MemberCount = len(room.Members)
	}
	o.pub.Send(cid, out)
}

func (o *Orchestrator) handleJoinRoom(cid domain.ConnectionID, data []byte) {
	var in events.JoinRoomIn
	if err := json.Unmarshal(data, &in); err != nil || in.MemberID == "" {
		o.sendError(cid, "invalid join-room payload")
		return
	}

	room, ok := o.reg.FindRoomByID(in.RoomID)
	if !ok {
		o.sendError(cid, "room not found")
		return
	}

	o.presence.Cancel(in.MemberID)

	o.mu.Lock()
	prevPresence, hadPresence := o.reg.GetPresence(in.MemberID)
	o.mu.Unlock()

	isReconnect := hadPresence && prevPresence.RoomID == in.RoomID

	if !isReconnect {
		for _, p := range o.reg.PresenceInRoom(in.RoomID) {
			if p.UserID != in.MemberID && p.Name == in.Name {
				o.sendError(cid, fmt.Sprintf("the name %q is already taken in this room", in.Name))
				return
			}
		}
	}

	if hadPresence && prevPresence.RoomID != "" && prevPresence.RoomID != in.RoomID {
		o.departRoom(prevPresence.RoomID, in.MemberID, prevPresence.ConnectionID)
	} else if isReconnect && prevPresence.ConnectionID != cid {
		o.mu.Lock()
		o.reg.SetUserSocket(in.MemberID, cid)
		o.mu.Unlock()
		o.pub.Kick(prevPresence.ConnectionID)
	}

	o.mu.Lock()
	o.reg.AddMemberToRoom(in.RoomID, in.MemberID)
	o.reg.SetUserSocket(in.MemberID, cid)
	o.reg.SetUserRoom(in.MemberID, in.RoomID)
	name := in.Name
	if name == "" {
		name = string(in.MemberID)
	}
	o.reg.UpsertPresence(domain.Presence{UserID: in.MemberID, Name: name, RoomID: in.RoomID, ConnectionID: cid})
	room, _ = o.reg.FindRoomByID(in.RoomID)
	o.mu.Unlock()

	o.pub.Join(in.RoomID, cid)

	o.pub.Send(cid, events.RoomJoinedOut{
		Type:    events.TypeRoomJoined,
		RoomID:  in.RoomID,
		Members: o.memberViews(room),
		Theme:   room.Theme,
	})

	if !isReconnect {
		o.pub.Broadcast(in.RoomID, cid, events.MemberJoinedOut{
			Type:    events.TypeMemberJoined,
			Member:  events.MemberView{UserID: in.MemberID, Name: name, IsHost: room.IsHost(in.MemberID)},
			Members: o.memberViews(room),
		})
		if !room.IsHost(in.MemberID) {
			if hostConn, ok := o.reg.GetUserSocket(room.HostID); ok {
				o.pub.Send(hostConn, events.ViewerJoinedOut{Type: events.TypeViewerJoined, ConnectionID: cid})
			}
		}
	}

	o.sendChatHistory(cid, in.RoomID)
	log.Info().Str("module", "orchestrator").Str("room", string(in.RoomID)).Str("member", string(in.MemberID)).Msg("join-room handled")
}

func (o *Orchestrator) handleLeaveRoom(cid domain.ConnectionID) {
	uid, rid, ok := o.currentUser(cid)
	if !ok || rid == "" {
		return
	}
	o.presence.Cancel(uid)
	o.departRoom(rid, uid, cid)
}

func (o *Orchestrator) sendChatHistory(cid domain.ConnectionID, rid domain.RoomID) {
	msgs := o.chatCo.History(rid)
	dtos := make([]events.ChatMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		dtos = append(dtos, toChatDTO(m))
	}
	o.pub.Send(cid, events.ChatHistoryOut{Type: events.TypeChatHistory, Messages: dtos})
}
