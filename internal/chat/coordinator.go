package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/screenhall/roomctl/internal/apperr"
	"github.com/screenhall/roomctl/internal/domain"
)

const (
	defaultRateLimit    = 10
	defaultRateInterval = 10 * time.Second
)

// Coordinator is the Chat & Reaction Coordinator: validates, persists,
// and hands back what the Signaling Orchestrator should broadcast.
// Persistence failures are logged and swallowed for sends (best-effort);
// reaction updates surface their error since they're not fire-and-forget.
type Coordinator struct {
	store     Store
	profanity Profanity
	limiter   *RateLimiter
	history   int
}

func NewCoordinator(store Store, profanity Profanity, history int) *Coordinator {
	if profanity == nil {
		profanity = NewWordlistProfanity(nil)
	}
	if history <= 0 {
		history = 50
	}
	return &Coordinator{
		store:     store,
		profanity: profanity,
		limiter:   NewRateLimiter(defaultRateLimit, defaultRateInterval),
		history:   history,
	}
}

// SendMessage validates and persists a chat message, returning the
// stored message ready for broadcast, or apperr.ErrForbidden if the
// sender is rate-limited.
func (c *Coordinator) SendMessage(roomID domain.RoomID, uid domain.UserID, userName, text string) (Message, error) {
	if !c.limiter.Allow(roomID, uid) {
		return Message{}, apperr.ErrForbidden
	}

	_, cleaned := c.profanity.Validate(text)

	msg := Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    uid,
		UserName:  userName,
		Text:      cleaned,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := c.store.SaveMessage(msg); err != nil {
		log.Error().Str("module", "chat").Err(err).Str("room", string(roomID)).Msg("save message failed")
	}
	return msg, nil
}

// History returns the room's recent messages, best-effort: a storage
// failure yields an empty history rather than blocking the join.
func (c *Coordinator) History(roomID domain.RoomID) []Message {
	msgs, err := c.store.GetMessages(roomID, c.history)
	if err != nil {
		log.Error().Str("module", "chat").Err(err).Str("room", string(roomID)).Msg("load history failed")
		return nil
	}
	return msgs
}

func (c *Coordinator) React(roomID domain.RoomID, messageID string, uid domain.UserID, emoji string) (Message, error) {
	return c.store.AddReaction(roomID, messageID, uid, emoji)
}

func (c *Coordinator) ClearRoom(roomID domain.RoomID) {
	if err := c.store.DeleteRoomMessages(roomID); err != nil {
		log.Error().Str("module", "chat").Err(err).Str("room", string(roomID)).Msg("clear room messages failed")
	}
}
