package realtime

import (
	"encoding/json"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// Event names carried in Envelope.Event.
const (
	EventJoin        = "join"
	EventSendMessage = "sendMessage"
	EventNewMessage  = "newMessage"
	EventError       = "error"
)

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinPayload binds the connection to the room of UserID.
type JoinPayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload submits a message as the connection's authenticated actor.
type SendMessagePayload struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ErrorPayload reports a rejected client event.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Identity is the authenticated actor behind a connection.
type Identity struct {
	ID   string
	Role domain.Role
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
