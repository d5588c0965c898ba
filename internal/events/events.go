// Package events defines the wire schema for the bidirectional event
// bus: a flat {"type": "<name>", ...fields} envelope per message,
// dispatched on that bare "type" field rather than a nested op/data
// envelope.
package events

import "github.com/screenhall/roomctl/internal/domain"

// Inbound event type names (client -> server).
const (
	TypeCreateRoom         = "create-room"
	TypeValidateRoom       = "validate-room"
	TypeJoinRoom           = "join-room"
	TypeLeaveRoom          = "leave-room"
	TypeSpinResult         = "spin-result"
	TypeOffer              = "offer"
	TypeAnswer             = "answer"
	TypeICECandidate       = "ice-candidate"
	TypeStopSharing        = "stop-sharing"
	TypeHostReadyToShare   = "host-ready-to-share"
	TypeRequestStream      = "request-stream"
	TypeLivestreamReaction = "livestream-reaction"
	TypeUpdateTheme        = "update-theme"
	TypeSendMessage        = "send-message"
	TypeReactToMessage     = "react-to-message"
	TypeGetRouterRtpCaps   = "getRouterRtpCapabilities"
	TypeCreateTransport    = "createTransport"
	TypeConnectTransport   = "connectTransport"
	TypeProduce            = "produce"
	TypeConsume            = "consume"
	TypeResumeConsumer     = "resumeConsumer"
	TypeGetProducers       = "getProducers"
	TypeCloseProducer      = "closeProducer"
)

// Outbound event type names (server -> client).
const (
	TypeRoomCreated            = "room-created"
	TypeRoomValidated          = "room-validated"
	TypeRoomJoined             = "room-joined"
	TypeRoomDeleted            = "room-deleted"
	TypeMemberJoined           = "member-joined"
	TypeMemberLeft             = "member-left"
	TypeHostReconnected        = "host-reconnected"
	TypeThemeUpdated           = "theme-updated"
	TypeError                  = "error"
	TypeExistingViewers        = "existing-viewers"
	TypeViewerJoined           = "viewer-joined"
	TypeChatMessage            = "chat-message"
	TypeChatHistory            = "chat-history"
	TypeMessageReactionUpdated = "message-reaction-updated"
	TypeRouterRtpCapabilities  = "routerRtpCapabilities"
	TypeTransportCreated       = "transportCreated"
	TypeTransportConnected     = "transportConnected"
	TypeProduced               = "produced"
	TypeNewProducer            = "newProducer"
	TypeConsumed               = "consumed"
	TypeConsumerResumed        = "consumerResumed"
	TypeProducers              = "producers"
	TypeProducerClosed         = "producerClosed"
)

// Envelope is the minimal shape every inbound message is first decoded
// into, to read the discriminator before unmarshaling the full payload.
type Envelope struct {
	Type string `json:"type"`
}

// Outbound envelope helpers. Each struct embeds Type so a single
// json.Marshal produces the full wire message.

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, Message: message}
}

type MemberView struct {
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"name"`
	IsHost bool          `json:"isHost"`
}
