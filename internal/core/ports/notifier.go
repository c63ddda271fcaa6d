package ports

import (
	"context"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
)

// Notifier dispatches templated notifications. Notify returns immediately and
// never reports failure to the caller.
type Notifier interface {
	Notify(address string, kind domain.TemplateKind, data domain.NotificationContext)
}

// Mail is a rendered notification ready for transport.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string // optional alternative body
}

// MailSender is the mail boundary: one delivery attempt per call.
type MailSender interface {
	Send(ctx context.Context, mail Mail) error
}
