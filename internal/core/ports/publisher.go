package ports

import "time"

// MessageEvent is the payload pushed to live connections.
type MessageEvent struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"senderId"`
	ReceiverID        string    `json:"receiverId,omitempty"`
	Content           string    `json:"content"`
	Kind              string    `json:"kind"`
	CreatedAt         time.Time `json:"createdAt"`
	SenderDisplayName string    `json:"senderDisplayName"`
}

// Publisher fans a message out to live connections. Publish must not block
// on slow or absent connections.
type Publisher interface {
	Publish(event MessageEvent)
}
