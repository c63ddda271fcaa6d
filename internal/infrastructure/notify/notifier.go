package notify

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/pkg/metrics"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/queue"
)

// Enqueuer accepts rendered jobs without blocking.
type Enqueuer interface {
	Enqueue(job queue.Job) bool
}

// Service implements ports.Notifier by rendering templates and handing the
// result to the dispatch queue.
type Service struct {
	templates *Templates
	queue     Enqueuer
	log       zerolog.Logger
}

func NewService(templates *Templates, q Enqueuer, log zerolog.Logger) *Service {
	return &Service{templates: templates, queue: q, log: log}
}

// Notify never blocks and never reports failure; problems end up in the log.
func (s *Service) Notify(address string, kind domain.TemplateKind, data domain.NotificationContext) {
	address = strings.TrimSpace(address)
	if address == "" {
		s.log.Debug().Str("template", string(kind)).Msg("no address, skipping notification")
		return
	}
	mail, err := s.templates.Render(kind, address, data)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(kind), "render_error").Inc()
		s.log.Error().Err(err).Str("template", string(kind)).Str("to", address).Msg("render notification")
		return
	}
	s.queue.Enqueue(queue.Job{Template: string(kind), Mail: mail})
}
