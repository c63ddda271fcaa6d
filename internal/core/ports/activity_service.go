package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// LogActivityInput carries a structured request submitted by an actor.
type LogActivityInput struct {
	ActorID string
	Type    string
	Details string
}

type ActivityService interface {
	Log(ctx context.Context, input LogActivityInput) (*domain.Activity, error)
}
