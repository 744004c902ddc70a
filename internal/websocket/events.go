package websocket

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Socket event names. Client-emitted events on the left half, server
// broadcasts on the right.
const (
	EventOnline       = "online"
	EventOffline      = "offline"
	EventUserOnline   = "userOnline"
	EventUserOffline  = "userOffline"
	EventJoinRoom     = "joinRoom"
	EventSendMessage  = "sendMessage"
	EventNewMessage   = "newMessage"
	EventMarkAsRead   = "markAsRead"
	EventMessagesRead = "messagesRead"
	EventTyping       = "typing"
	EventStopTyping   = "stopTyping"
)

// Envelope is the wire frame for every socket message, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	MatchID uuid.UUID `json:"matchId"`
}

type SendMessagePayload struct {
	MatchID   uuid.UUID `json:"matchId"`
	MessageID uuid.UUID `json:"messageId"`
}

type MarkAsReadPayload struct {
	MatchID uuid.UUID `json:"matchId"`
}

type TypingPayload struct {
	MatchID uuid.UUID `json:"matchId"`
}

func encodeEvent(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
}
