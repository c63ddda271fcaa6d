package ports

import (
	"context"
	"time"
)

// SubmitMessageInput is the DTO passed from a transport to MessageService.
type SubmitMessageInput struct {
	SenderID string
	Content  string
	Kind     string // empty defaults to domain.DefaultMessageKind
}

// SubmitMessageResult acknowledges a persisted message.
type SubmitMessageResult struct {
	ID            string
	ReceiverID    string
	ReceiverEmail string
	CreatedAt     time.Time
}

// MessageView is a history entry enriched with the sender's display name.
type MessageView struct {
	ID                string
	SenderID          string
	ReceiverID        string
	Content           string
	Kind              string
	CreatedAt         time.Time
	SenderDisplayName string
}

// MessageService routes inbound messages and serves history.
type MessageService interface {
	Submit(ctx context.Context, input SubmitMessageInput) (*SubmitMessageResult, error)
	History(ctx context.Context, actorID string, limit int) ([]MessageView, error)
}
