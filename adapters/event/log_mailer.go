package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// LogMailer delivers contact messages to the log. The worker uses it as the final delivery
// step, the server falls back to it when Kafka is not configured.
type LogMailer struct {
	logger logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

var _ service.Mailer = (*LogMailer)(nil)

func (m *LogMailer) Send(_ context.Context, msg service.ContactMessage) error {
	m.logger.Info("New contact message",
		zap.String("from_name", msg.Name),
		zap.String("from_email", msg.Email),
		zap.String("subject", msg.Subject),
		zap.Int("message_length", len(msg.Message)),
	)
	return nil
}
