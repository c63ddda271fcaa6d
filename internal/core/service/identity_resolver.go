package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// RecencyTracker abstracts the last-activity store (Redis). It breaks ties
// when several accounts hold the counterparty role.
type RecencyTracker interface {
	Touch(ctx context.Context, role domain.Role, userID string) error
	// MostRecent returns the most recently active id among candidates, or ""
	// when none has been seen.
	MostRecent(ctx context.Context, role domain.Role, candidates []string) (string, error)
}

// IdentityResolver maps actors to roles and resolves message counterparties.
type IdentityResolver struct {
	users   ports.UserRepository
	recency RecencyTracker
	log     zerolog.Logger
}

// NewIdentityResolver returns a resolver. recency may be nil, in which case
// the oldest holder of a role always wins.
func NewIdentityResolver(users ports.UserRepository, recency RecencyTracker, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, recency: recency, log: log}
}

// Actor loads the authenticated actor behind id.
func (r *IdentityResolver) Actor(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticatedSender
	}
	u, err := r.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticatedSender
		}
		return nil, fmt.Errorf("resolve actor: %w: %w", domain.ErrPersistence, err)
	}
	return u, nil
}

// Counterparty returns the single actor a message from sender is addressed to.
//
// With several holders of the receiver role, the most recently active one
// is chosen; without recency data the oldest account wins.
func (r *IdentityResolver) Counterparty(ctx context.Context, sender *domain.User) (*domain.User, error) {
	role := sender.Role.Counterparty()

	holders, err := r.users.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("resolve counterparty: %w: %w", domain.ErrPersistence, err)
	}
	if len(holders) == 0 {
		return nil, domain.ErrNoCounterparty
	}
	if len(holders) == 1 || r.recency == nil {
		return holders[0], nil
	}

	ids := make([]string, len(holders))
	for i, h := range holders {
		ids[i] = h.ID
	}
	recent, err := r.recency.MostRecent(ctx, role, ids)
	if err != nil {
		r.log.Warn().Err(err).Str("role", string(role)).Msg("recency lookup failed, using oldest holder")
		return holders[0], nil
	}
	for _, h := range holders {
		if h.ID == recent {
			return h, nil
		}
	}
	return holders[0], nil
}

// Correspondents returns every holder of the correspondent role. Lookup
// failures are logged and yield no recipients.
func (r *IdentityResolver) Correspondents(ctx context.Context) []*domain.User {
	users, err := r.users.FindByRole(ctx, domain.RoleCorrespondent)
	if err != nil {
		r.log.Warn().Err(err).Msg("correspondent lookup failed")
		return nil
	}
	return users
}

// Touch records activity for u. Failures are logged only.
func (r *IdentityResolver) Touch(ctx context.Context, u *domain.User) {
	if r.recency == nil || u == nil {
		return
	}
	if err := r.recency.Touch(ctx, u.Role, u.ID); err != nil {
		r.log.Warn().Err(err).Str("actor_id", u.ID).Msg("failed to record recency")
	}
}
