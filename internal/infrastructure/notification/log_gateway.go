package notification

import (
	"context"

	appnotif "github.com/tailor/backend/internal/application/notification"
	"go.uber.org/zap"
)

// LogGateway writes outgoing messages to the structured log instead
// of delivering them. It stands in for a real SMS/WhatsApp/email
// provider in development and in tests.
type LogGateway struct {
	logger *zap.Logger
}

// NewLogGateway creates a new LogGateway
func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) SendSMS(ctx context.Context, phone, body string) error {
	g.logger.Info("sms sent",
		zap.String("channel", string(appnotif.ChannelSMS)),
		zap.String("to", phone),
		zap.String("body", body),
	)
	return nil
}

func (g *LogGateway) SendWhatsApp(ctx context.Context, phone, body string) error {
	g.logger.Info("whatsapp sent",
		zap.String("channel", string(appnotif.ChannelWhatsApp)),
		zap.String("to", phone),
		zap.String("body", body),
	)
	return nil
}

func (g *LogGateway) SendEmail(ctx context.Context, to, subject, body string, attachments ...appnotif.EmailAttachment) error {
	fields := []zap.Field{
		zap.String("channel", string(appnotif.ChannelEmail)),
		zap.String("to", to),
		zap.String("subject", subject),
	}
	for _, att := range attachments {
		fields = append(fields,
			zap.String("attachment", att.Filename),
			zap.Int("attachment_bytes", len(att.Data)),
		)
	}
	g.logger.Info("email sent", fields...)
	return nil
}

var _ appnotif.Gateway = (*LogGateway)(nil)
