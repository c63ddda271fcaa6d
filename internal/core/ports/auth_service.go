package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// RegisterInput carries the self-registration form.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string // empty defaults to shared
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// SeedUser describes an account created at startup when missing.
type SeedUser struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
