package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// UserRepository defines persistence operations for actors.
type UserRepository interface {
	// Create inserts a user; a duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// FindByRole returns every holder of role, oldest account first.
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
