package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agroplaza/identity-api/internal/core/ports"
)

// LogSender is the development NotificationSender: it writes the message to
// the structured log instead of delivering it. Production deployments swap in
// an SMTP or WhatsApp client behind the same port.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n ports.Notification) error {
	s.log.Info().
		Str("channel", string(n.Channel)).
		Str("to", n.To).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("notification dispatched")
	return nil
}
