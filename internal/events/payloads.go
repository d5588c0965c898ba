package events

import "github.com/screenhall/roomctl/internal/domain"

// --- inbound payloads ---

type CreateRoomIn struct {
	Type   string        `json:"type"`
	HostID domain.UserID `json:"hostId"`
	Name   string        `json:"name"`
}

type ValidateRoomIn struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type JoinRoomIn struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	MemberID domain.UserID `json:"memberId"`
	Name     string        `json:"name"`
}

type SpinResultIn struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	Result any           `json:"result"`
}

type OfferIn struct {
	Type string              `json:"type"`
	To   domain.ConnectionID `json:"to,omitempty"`
	SDP  string              `json:"sdp"`
}

type AnswerIn struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

type ICECandidateIn struct {
	Type          string              `json:"type"`
	To            domain.ConnectionID `json:"to,omitempty"`
	Candidate     string              `json:"candidate"`
	SDPMid        string              `json:"sdpMid,omitempty"`
	SDPMLineIndex uint16              `json:"sdpMLineIndex,omitempty"`
}

// --- legacy relay outbound payloads ---
//
// Forwarded verbatim in content but never in envelope: the recipient
// needs to know which connection an offer/answer/candidate came from to
// reply, so these carry "from" instead of the inbound "to".

type OfferOut struct {
	Type  string              `json:"type"`
	From  domain.ConnectionID `json:"from"`
	Offer string              `json:"offer"`
}

type AnswerOut struct {
	Type   string              `json:"type"`
	From   domain.ConnectionID `json:"from"`
	Answer string              `json:"answer"`
}

type ICECandidateOut struct {
	Type          string              `json:"type"`
	From          domain.ConnectionID `json:"from"`
	Candidate     string              `json:"candidate"`
	SDPMid        string              `json:"sdpMid,omitempty"`
	SDPMLineIndex uint16              `json:"sdpMLineIndex,omitempty"`
}

type LivestreamReactionIn struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type UpdateThemeIn struct {
	Type  string       `json:"type"`
	Theme domain.Theme `json:"theme"`
}

type SendMessageIn struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ReactToMessageIn struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}

type CreateTransportIn struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

type ConnectTransportIn struct {
	Type        string `json:"type"`
	TransportID string `json:"transportId"`
	SDP         string `json:"sdp"`
}

type ProduceIn struct {
	Type        string `json:"type"`
	TransportID string `json:"transportId"`
}

type ConsumeIn struct {
	Type        string `json:"type"`
	ProducerID  string `json:"producerId"`
	TransportID string `json:"transportId"`
}

type ResumeConsumerIn struct {
	Type       string `json:"type"`
	ConsumerID string `json:"consumerId"`
}

type CloseProducerIn struct {
	Type       string `json:"type"`
	ProducerID string `json:"producerId"`
}

// --- outbound payloads ---

type RoomCreatedOut struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Members []MemberView  `json:"members"`
	Theme   domain.Theme  `json:"theme"`
}

type RoomValidatedOut struct {
	Type        string        `json:"type"`
	RoomID      domain.RoomID `json:"roomId"`
	Exists      bool          `json:"exists"`
	MemberCount int           `json:"memberCount,omitempty"`
}

type RoomJoinedOut struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Members []MemberView  `json:"members"`
	Theme   domain.Theme  `json:"theme"`
}

type RoomDeletedOut struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Message string        `json:"message"`
}

type MemberJoinedOut struct {
	Type    string       `json:"type"`
	Member  MemberView   `json:"member"`
	Members []MemberView `json:"members"`
}

type MemberLeftOut struct {
	Type    string        `json:"type"`
	UserID  domain.UserID `json:"userId"`
	Members []MemberView  `json:"members"`
}

type HostReconnectedOut struct {
	Type         string              `json:"type"`
	HostID       domain.UserID       `json:"hostId"`
	HostSocketID domain.ConnectionID `json:"hostSocketId"`
}

type ThemeUpdatedOut struct {
	Type  string       `json:"type"`
	Theme domain.Theme `json:"theme"`
}

type ExistingViewersOut struct {
	Type    string                `json:"type"`
	Viewers []domain.ConnectionID `json:"viewers"`
}

type ViewerJoinedOut struct {
	Type         string              `json:"type"`
	ConnectionID domain.ConnectionID `json:"connectionId"`
}

type RequestStreamOut struct {
	Type         string              `json:"type"`
	ConnectionID domain.ConnectionID `json:"connectionId"`
}

type LivestreamReactionOut struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	UserID    domain.UserID `json:"userId"`
	UserName  string        `json:"userName"`
	Emoji     string        `json:"emoji"`
	Timestamp int64         `json:"timestamp"`
}

type SpinResultOut struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	Result any           `json:"result"`
}

type ChatMessageDTO struct {
	ID        string        `json:"id"`
	UserID    domain.UserID `json:"userId"`
	UserName  string        `json:"userName"`
	Message   string        `json:"message"`
	Timestamp int64         `json:"timestamp"`
	Reactions []ReactionDTO `json:"reactions,omitempty"`
}

type ReactionDTO struct {
	Emoji   string          `json:"emoji"`
	UserIDs []domain.UserID `json:"userIds"`
}

type ChatMessageOut struct {
	Type    string         `json:"type"`
	Message ChatMessageDTO `json:"message"`
}

type ChatHistoryOut struct {
	Type     string           `json:"type"`
	Messages []ChatMessageDTO `json:"messages"`
}

type MessageReactionUpdatedOut struct {
	Type      string        `json:"type"`
	MessageID string        `json:"messageId"`
	Reactions []ReactionDTO `json:"reactions"`
}

type RouterRtpCapabilitiesOut struct {
	Type   string   `json:"type"`
	Codecs []string `json:"codecs"`
}

type TransportCreatedOut struct {
	Type        string `json:"type"`
	TransportID string `json:"transportId"`
}

type TransportConnectedOut struct {
	Type        string `json:"type"`
	TransportID string `json:"transportId"`
	SDP         string `json:"sdp"`
}

type ProducedOut struct {
	Type       string `json:"type"`
	ProducerID string `json:"producerId"`
}

type NewProducerOut struct {
	Type         string              `json:"type"`
	ProducerID   string              `json:"producerId"`
	ConnectionID domain.ConnectionID `json:"connectionId"`
}

type ConsumedOut struct {
	Type       string `json:"type"`
	ConsumerID string `json:"consumerId"`
	ProducerID string `json:"producerId"`
}

type ConsumerResumedOut struct {
	Type       string `json:"type"`
	ConsumerID string `json:"consumerId"`
}

type ProducerView struct {
	ProducerID   string              `json:"producerId"`
	ConnectionID domain.ConnectionID `json:"connectionId"`
}

type ProducersOut struct {
	Type      string         `json:"type"`
	Producers []ProducerView `json:"producers"`
}

type ProducerClosedOut struct {
	Type       string `json:"type"`
	ProducerID string `json:"producerId"`
}
