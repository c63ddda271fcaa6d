package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// ActivityRepository persists logged activities.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
}
