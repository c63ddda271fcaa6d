package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/pkg/metrics"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// MessageService routes inbound messages: resolve, persist, notify, publish.
type MessageService struct {
	resolver  *IdentityResolver
	users     ports.UserRepository
	messages  ports.MessageRepository
	notifier  ports.Notifier
	publisher ports.Publisher
	log       zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewMessageService(
	resolver *IdentityResolver,
	users ports.UserRepository,
	messages ports.MessageRepository,
	notifier ports.Notifier,
	publisher ports.Publisher,
	log zerolog.Logger,
) *MessageService {
	return &MessageService{
		resolver:  resolver,
		users:     users,
		messages:  messages,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Submit persists a message addressed by the sender's role and returns once
// the record is durable. Notification and live delivery run after the write
// and never fail the call.
func (s *MessageService) Submit(ctx context.Context, in ports.SubmitMessageInput) (*ports.SubmitMessageResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		metrics.MessageSubmitErrorsTotal.WithLabelValues("empty_content").Inc()
		return nil, domain.ErrEmptyContent
	}
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		kind = domain.DefaultMessageKind
	}

	// 1. Addressing.
	sender, err := s.resolver.Actor(ctx, in.SenderID)
	if err != nil {
		metrics.MessageSubmitErrorsTotal.WithLabelValues(submitErrorReason(err)).Inc()
		return nil, err
	}
	receiver, err := s.resolver.Counterparty(ctx, sender)
	if err != nil {
		metrics.MessageSubmitErrorsTotal.WithLabelValues(submitErrorReason(err)).Inc()
		return nil, err
	}

	// 2. Persist; this alone gates the response.
	msg := &domain.Message{
		ID:         s.newID(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    in.Content,
		Kind:       kind,
		CreatedAt:  s.now(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		metrics.MessageSubmitErrorsTotal.WithLabelValues("persistence").Inc()
		s.log.Error().Err(err).Str("sender_id", sender.ID).Msg("failed to persist message")
		return nil, fmt.Errorf("submit message: %w: %w", domain.ErrPersistence, err)
	}
	metrics.MessagesSubmittedTotal.WithLabelValues(kind).Inc()

	// 3. Notifications (queued, never awaited).
	s.notifier.Notify(receiver.Email, domain.TemplateMessageReceived, domain.NotificationContext{
		RecipientName: receiver.DisplayName(),
		SubjectName:   sender.DisplayName(),
		SubjectEmail:  sender.Email,
		Content:       msg.Content,
		Timestamp:     msg.CreatedAt,
	})
	s.notifier.Notify(sender.Email, domain.TemplateMessageSentConfirmation, domain.NotificationContext{
		RecipientName: sender.DisplayName(),
		SubjectName:   receiver.DisplayName(),
		SubjectEmail:  receiver.Email,
		Content:       msg.Content,
		Timestamp:     msg.CreatedAt,
	})

	// 4. Live delivery.
	s.publisher.Publish(ports.MessageEvent{
		ID:                msg.ID,
		SenderID:          msg.SenderID,
		ReceiverID:        msg.ReceiverID,
		Content:           msg.Content,
		Kind:              msg.Kind,
		CreatedAt:         msg.CreatedAt,
		SenderDisplayName: sender.DisplayName(),
	})

	s.resolver.Touch(ctx, sender)

	s.log.Info().
		Str("message_id", msg.ID).
		Str("sender_id", msg.SenderID).
		Str("receiver_id", msg.ReceiverID).
		Str("kind", kind).
		Msg("message submitted")

	return &ports.SubmitMessageResult{
		ID:            msg.ID,
		ReceiverID:    receiver.ID,
		ReceiverEmail: receiver.Email,
		CreatedAt:     msg.CreatedAt,
	}, nil
}

// History returns the actor's most recent messages, newest first, each with
// the sender's display name.
func (s *MessageService) History(ctx context.Context, actorID string, limit int) ([]ports.MessageView, error) {
	msgs, err := s.messages.History(ctx, actorID, domain.ClampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("message history: %w: %w", domain.ErrPersistence, err)
	}

	names := s.senderNames(ctx, msgs)
	views := make([]ports.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, ports.MessageView{
			ID:                m.ID,
			SenderID:          m.SenderID,
			ReceiverID:        m.ReceiverID,
			Content:           m.Content,
			Kind:              m.Kind,
			CreatedAt:         m.CreatedAt,
			SenderDisplayName: names[m.SenderID],
		})
	}
	return views, nil
}

// senderNames looks up display names for the distinct senders in msgs.
// A failed lookup degrades to empty names rather than failing the read.
func (s *MessageService) senderNames(ctx context.Context, msgs []*domain.Message) map[string]string {
	names := make(map[string]string)
	if len(msgs) == 0 {
		return names
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, 2)
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		ids = append(ids, m.SenderID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load sender names")
		return names
	}
	for _, u := range users {
		names[u.ID] = u.DisplayName()
	}
	return names
}

func submitErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticatedSender):
		return "unauthenticated_sender"
	case errors.Is(err, domain.ErrNoCounterparty):
		return "no_counterparty"
	default:
		return "persistence"
	}
}
