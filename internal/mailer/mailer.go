package mailer

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// DeliveryStatus classifies the outcome of one send attempt.
type DeliveryStatus string

const (
	// StatusSent means the provider accepted the message
	StatusSent DeliveryStatus = "SENT"
	// StatusRejected means the provider answered with a 4xx/5xx status
	StatusRejected DeliveryStatus = "REJECTED"
	// StatusTransportFailed means the provider could not be reached
	StatusTransportFailed DeliveryStatus = "TRANSPORT_FAILED"
)

// Attachment is a single file carried by a notification email.
type Attachment struct {
	Content  []byte
	Filename string
	MIMEType string
}

// Message is one notification to be delivered to a single recipient.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment Attachment
}

// DeliveryResult carries the provider outcome of one send attempt.
type DeliveryResult struct {
	To         string
	Status     DeliveryStatus
	StatusCode int
	Err        error
}

// Config holds SendGrid dispatcher configuration
type Config struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	// Host overrides the SendGrid API host, used by tests
	Host string
}

const defaultHost = "https://api.sendgrid.com"

// SendGridDispatcher delivers notification emails through the SendGrid v3
// mail-send API. Delivery is best-effort: failures are logged and reported
// only through the DeliveryResult, never as an error, so one recipient's
// failure cannot abort another delivery or the surrounding request.
type SendGridDispatcher struct {
	config Config
	logger *slog.Logger
}

// NewSendGridDispatcher creates a new SendGridDispatcher instance
func NewSendGridDispatcher(config Config, logger *slog.Logger) *SendGridDispatcher {
	return &SendGridDispatcher{
		config: config,
		logger: logger,
	}
}

// Send builds and submits one transactional email with its attachment.
func (d *SendGridDispatcher) Send(ctx context.Context, msg Message) DeliveryResult {
	host := d.config.Host
	if host == "" {
		host = defaultHost
	}

	request := sendgrid.GetRequest(d.config.APIKey, "/v3/mail/send", host)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(buildMail(d.config, msg))

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		d.logger.Error("Email transport failed",
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		return DeliveryResult{To: msg.To, Status: StatusTransportFailed, Err: err}
	}

	if response.StatusCode >= 400 {
		d.logger.Error("Email rejected by provider",
			slog.String("to", msg.To),
			slog.Int("status_code", response.StatusCode),
		)
		return DeliveryResult{To: msg.To, Status: StatusRejected, StatusCode: response.StatusCode}
	}

	d.logger.Info("Email sent",
		slog.String("to", msg.To),
		slog.Int("status_code", response.StatusCode),
	)
	return DeliveryResult{To: msg.To, Status: StatusSent, StatusCode: response.StatusCode}
}

// buildMail assembles the SendGrid message with exactly one base64-encoded
// attachment tagged with an explicit disposition and MIME type.
func buildMail(config Config, msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(config.SenderName, config.SenderEmail))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	m.AddContent(mail.NewContent("text/html", msg.HTMLBody))

	if len(msg.Attachment.Content) > 0 {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Content))
		a.SetType(msg.Attachment.MIMEType)
		a.SetFilename(msg.Attachment.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	return m
}
