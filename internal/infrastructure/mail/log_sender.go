package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// LogSender stands in for SMTP when no relay is configured: every mail is
// written to the log and reported as delivered.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, m ports.Mail) error {
	s.log.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Str("body", m.Text).
		Msg("mail (smtp not configured)")
	return nil
}
