package notify

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "notify")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "notification", "kind", msg.Kind, "to", msg.Email, "subject", msg.Subject(), "body", msg.Body())
	return nil
}
