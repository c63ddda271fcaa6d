package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// RecencyTracker records when each account of a role was last active.
// Key format: recency:<role>, a sorted set of user IDs scored by unix millis.
type RecencyTracker struct {
	client *redis.Client
	now    func() time.Time
}

func NewRecencyTracker(client *redis.Client) *RecencyTracker {
	return &RecencyTracker{client: client, now: time.Now}
}

// Touch marks id as active now.
func (r *RecencyTracker) Touch(ctx context.Context, role domain.Role, id string) error {
	err := r.client.ZAdd(ctx, r.key(role), redis.Z{Score: float64(r.now().UnixMilli()), Member: id}).Err()
	if err != nil {
		return fmt.Errorf("recency touch: %w", err)
	}
	return nil
}

// MostRecent returns the candidate with the highest score, or "" when none
// of them has been seen.
func (r *RecencyTracker) MostRecent(ctx context.Context, role domain.Role, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	scores, err := r.client.ZMScore(ctx, r.key(role), candidates...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("recency lookup: %w", err)
	}
	best, bestScore := "", 0.0
	for i, score := range scores {
		// Unseen members come back as 0.
		if score > bestScore {
			best, bestScore = candidates[i], score
		}
	}
	return best, nil
}

// Ping reports whether Redis is reachable.
func (r *RecencyTracker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RecencyTracker) key(role domain.Role) string {
	return "recency:" + string(role)
}
