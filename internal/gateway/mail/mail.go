// Package mail sends notification e-mails.
package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"virtual-vr-console/internal/logx"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// Message is a single-recipient notification.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid delivers through the SendGrid v3 API.
type SendGrid struct {
	key  string
	host string
	from *sgmail.Email
}

// NewSendGrid creates a SendGrid mailer. An empty host selects the public API.
func NewSendGrid(key, host, fromName, fromEmail string) *SendGrid {
	if host == "" {
		host = defaultHost
	}
	return &SendGrid{key: key, host: host, from: sgmail.NewEmail(fromName, fromEmail)}
}

func (s *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

// Send posts msg; any non-2xx answer is an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: res.StatusCode, Body: res.Body}
	}
	return nil
}

// StatusError is a non-2xx answer of the mail API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sendgrid: status %d: %s", e.Code, e.Body)
}

// LogMailer only logs messages; used when no API key is configured.
type LogMailer struct {
	logger logx.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger logx.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(_ context.Context, msg Message) error {
	l.logger.Info("mail not sent: no provider configured",
		logx.String("to", msg.ToEmail),
		logx.String("subject", msg.Subject),
	)
	return nil
}

var (
	_ Mailer = (*SendGrid)(nil)
	_ Mailer = (*LogMailer)(nil)
)
