package orchestrator

import (
	"encoding/json"
	"errors"

	"github.com/screenhall/roomctl/internal/apperr"
	"github.com/screenhall/roomctl/internal/chat"
	"github.com/screenhall/roomctl/internal/domain"
	"github.com/screenhall/roomctl/internal/events"
)

func toChatDTO(m chat.Message) events.ChatMessageDTO {
	dto := events.ChatMessageDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Text,
		Timestamp: m.Timestamp,
	}
	for _, r := range m.Reactions {
		dto.Reactions = append(dto.Reactions, events.ReactionDTO{Emoji: r.Emoji, UserIDs: r.UserIDs})
	}
	return dto
}

func (o *Orchestrator) handleSendMessage(cid domain.ConnectionID, data []byte) {
	var in events.SendMessageIn
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

	msg, err := o.chatCo.SendMessage(rid, uid, name, in.Message)
	if err != nil {
		if errors.Is(err, apperr.ErrForbidden) {
			o.sendError(cid, "you are sending messages too fast")
			return
		}
		o.sendError(cid, "could not send message")
		return
	}
	o.pub.Broadcast(rid, "", events.ChatMessageOut{Type: events.TypeChatMessage, Message: toChatDTO(msg)})
}

func (o *Orchestrator) handleReactToMessage(cid domain.ConnectionID, data []byte) {
	var in events.ReactToMessageIn
	if err := json.Unmarshal(data, &in); err != nil {
		return
	}
	uid, rid, ok := o.currentUser(cid)
	if !ok {
		return
	}
	msg, err := o.chatCo.React(rid, in.MessageID, uid, in.Emoji)
	if err != nil {
		o.sendError(cid, "could not update reaction")
		return
	}
	dto := toChatDTO(msg)
	o.pub.Broadcast(rid, "", events.MessageReactionUpdatedOut{
		Type:      events.TypeMessageReactionUpdated,
		MessageID: in.MessageID,
		Reactions: dto.Reactions,
	})
}
