package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/pkg/metrics"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

type activityService struct {
	resolver   *IdentityResolver
	activities ports.ActivityRepository
	notifier   ports.Notifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(
	resolver *IdentityResolver,
	activities ports.ActivityRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.ActivityService {
	return &activityService{
		resolver:   resolver,
		activities: activities,
		notifier:   notifier,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Log persists an activity and notifies the actor. Correspondents are alerted
// to activities of other actors, except logins.
func (s *activityService) Log(ctx context.Context, in ports.LogActivityInput) (*domain.Activity, error) {
	activityType := strings.TrimSpace(in.Type)
	if activityType == "" {
		return nil, domain.ErrActivityTypeRequired
	}

	actor, err := s.resolver.Actor(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Type:      activityType,
		Details:   in.Details,
		CreatedAt: s.now(),
	}
	if err := s.activities.Insert(ctx, activity); err != nil {
		s.log.Error().Err(err).Str("actor_id", actor.ID).Msg("failed to persist activity")
		return nil, fmt.Errorf("log activity: %w: %w", domain.ErrPersistence, err)
	}
	metrics.ActivitiesLoggedTotal.WithLabelValues(activityType).Inc()

	s.notifier.Notify(actor.Email, domain.TemplateActivityCompleted, domain.NotificationContext{
		RecipientName:   actor.DisplayName(),
		SubjectName:     actor.DisplayName(),
		SubjectEmail:    actor.Email,
		ActivityType:    activity.Type,
		ActivityDetails: activity.Details,
		Timestamp:       activity.CreatedAt,
	})
	if activity.Type != domain.ActivityLogin && actor.Role != domain.RoleCorrespondent {
		for _, c := range s.resolver.Correspondents(ctx) {
			s.notifier.Notify(c.Email, domain.TemplateCounterpartyActivityAlert, domain.NotificationContext{
				RecipientName:   c.DisplayName(),
				SubjectName:     actor.DisplayName(),
				SubjectEmail:    actor.Email,
				SubjectRole:     actor.Role,
				ActivityType:    activity.Type,
				ActivityDetails: activity.Details,
				Timestamp:       activity.CreatedAt,
			})
		}
	}
	s.resolver.Touch(ctx, actor)

	s.log.Info().
		Str("activity_id", activity.ID).
		Str("actor_id", actor.ID).
		Str("type", activity.Type).
		Msg("activity logged")

	return activity, nil
}
