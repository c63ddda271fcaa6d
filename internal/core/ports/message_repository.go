package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// MessageRepository is the durable append-only message record.
type MessageRepository interface {
	// Append persists one fully-formed message as a single atomic write.
	Append(ctx context.Context, msg *domain.Message) error
	// History returns up to limit messages where actorID is sender or
	// receiver, newest first.
	History(ctx context.Context, actorID string, limit int) ([]*domain.Message, error)
}
