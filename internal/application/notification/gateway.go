package notification

import "context"

// Channel identifies a delivery channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// EmailAttachment is a file attached to an outgoing email
type EmailAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Gateway sends customer notifications. Delivery failures are returned
// as errors for the caller to log; they never abort the business
// operation that triggered them.
type Gateway interface {
	SendSMS(ctx context.Context, phone, body string) error
	SendWhatsApp(ctx context.Context, phone, body string) error
	SendEmail(ctx context.Context, to, subject, body string, attachments ...EmailAttachment) error
}

// Noop discards all messages
type Noop struct{}

func (Noop) SendSMS(ctx context.Context, phone, body string) error      { return nil }
func (Noop) SendWhatsApp(ctx context.Context, phone, body string) error { return nil }
func (Noop) SendEmail(ctx context.Context, to, subject, body string, attachments ...EmailAttachment) error {
	return nil
}
